package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/infofinder/internal/common"
)

// TextLayer extracts the embedded text of a PDF, one entry per page in page order.
type TextLayer interface {
	PageTexts(ctx context.Context, path string) ([]string, error)
}

// PageCounter opens a PDF and returns its page count. Text layers implement
// it so a file is opened by the same backend that later reads its text.
type PageCounter interface {
	PageCount(ctx context.Context, path string) (int, error)
}

// CountPages opens path as a PDF and returns its page count.
// Any failure to parse the file is reported as common.ErrOpenPDF.
func CountPages(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, common.CodedError(common.CodeOpen, fmt.Errorf("%w: %s: %v", common.ErrOpenPDF, path, r))
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, common.CodedError(common.CodeOpen, fmt.Errorf("%w: %s: %w", common.ErrOpenPDF, path, err))
	}
	defer f.Close()
	return r.NumPage(), nil
}

// GoTextLayer reads the text layer in-process with github.com/ledongthuc/pdf.
type GoTextLayer struct{}

func (GoTextLayer) PageCount(_ context.Context, path string) (int, error) {
	return CountPages(path)
}

func (GoTextLayer) PageTexts(ctx context.Context, path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, common.CodedError(common.CodeOpen, fmt.Errorf("%w: %s: %v", common.ErrOpenPDF, path, r))
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, common.CodedError(common.CodeOpen, fmt.Errorf("%w: %s: %w", common.ErrOpenPDF, path, err))
	}
	defer f.Close()

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d text: %w", i, err)
		}
		pages = append(pages, txt)
	}
	return pages, nil
}

// PopplerTextLayer shells out to pdftotext, and to pdfinfo to open the file.
type PopplerTextLayer struct {
	Bin     string
	InfoBin string
	Runner  Runner
}

func (p PopplerTextLayer) PageCount(ctx context.Context, path string) (int, error) {
	bin := p.InfoBin
	if bin == "" {
		bin = "pdfinfo"
	}
	// pdfinfo <path>
	out, errb, err := p.Runner.Run(ctx, bin, path)
	if err != nil {
		return 0, common.CodedError(common.CodeOpen, fmt.Errorf("%w: %s: %w: %s", common.ErrOpenPDF, path, err, truncate(string(errb), 512)))
	}
	n, ok := parsePdfinfoPages(string(out))
	if !ok {
		return 0, common.CodedError(common.CodeOpen, fmt.Errorf("%w: %s: pdfinfo reported no page count", common.ErrOpenPDF, path))
	}
	return n, nil
}

// parsePdfinfoPages reads the "Pages:" line of pdfinfo output.
func parsePdfinfoPages(out string) (int, bool) {
	for _, line := range strings.Split(out, "\n") {
		rest, found := strings.CutPrefix(line, "Pages:")
		if !found {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		return n, err == nil
	}
	return 0, false
}

func (p PopplerTextLayer) PageTexts(ctx context.Context, path string) ([]string, error) {
	// pdftotext -enc UTF-8 -eol unix <path> -
	out, errb, err := p.Runner.Run(ctx, p.Bin, "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, common.CodedError(common.CodeOpen, fmt.Errorf("%w: %s: %w: %s", common.ErrOpenPDF, path, err, truncate(string(errb), 512)))
	}
	return splitFormFeeds(string(out)), nil
}

// splitFormFeeds splits pdftotext output into pages. pdftotext terminates every
// page with a form feed, so the empty piece after the last one is dropped.
func splitFormFeeds(text string) []string {
	if text == "" {
		return nil
	}
	pages := strings.Split(text, "\f")
	if pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
