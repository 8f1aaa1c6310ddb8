package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/infofinder/internal/common"
)

// Rasterizer renders every page of a PDF to an image file inside dir and
// returns the image paths in page order.
type Rasterizer interface {
	Render(ctx context.Context, path, dir string) ([]string, error)
}

// PopplerRasterizer renders pages with pdftoppm.
type PopplerRasterizer struct {
	Bin    string
	DPI    int
	Runner Runner
}

func (p PopplerRasterizer) Render(ctx context.Context, path, dir string) ([]string, error) {
	prefix := filepath.Join(dir, "page")
	// pdftoppm -r 300 -png <in.pdf> <dir/page>
	_, errb, err := p.Runner.Run(ctx, p.Bin, "-r", strconv.Itoa(p.DPI), "-png", path, prefix)
	if err != nil {
		return nil, common.CodedError(common.CodeRasterize, fmt.Errorf("%w: %s: %w: %s", common.ErrRasterize, path, err, truncate(string(errb), 512)))
	}

	// generated pngs: page-1.png, page-2.png, ... (zero padded for long documents)
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, common.CodedError(common.CodeRasterize, fmt.Errorf("%w: %w", common.ErrRasterize, err))
	}
	if len(matches) == 0 {
		return nil, common.CodedError(common.CodeRasterize, fmt.Errorf("%w: %s: no pages rendered", common.ErrRasterize, path))
	}
	sort.Slice(matches, func(i, j int) bool {
		return pageNumber(matches[i]) < pageNumber(matches[j])
	})
	return matches, nil
}

func pageNumber(img string) int {
	base := strings.TrimSuffix(filepath.Base(img), ".png")
	idx := strings.LastIndex(base, "-")
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
