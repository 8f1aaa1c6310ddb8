package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/common"
)

const docxMainPart = "word/document.xml"

// DOCXExtractor writes every body paragraph of a Word document, one per line.
type DOCXExtractor struct {
	logger *slog.Logger
}

func NewDOCXExtractor(logger *slog.Logger) *DOCXExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DOCXExtractor{logger: logger}
}

func (d *DOCXExtractor) Extract(ctx context.Context, path string) (string, error) {
	start := time.Now()
	text, paragraphs, err := DOCXText(path)
	if err != nil {
		return "", err
	}
	out := constants.TextPathFor(path)
	if err := writeArtifact(out, text); err != nil {
		return "", err
	}
	common.LoggerFromContext(ctx, d.logger).Info("docx extracted",
		"path", path,
		"paragraphs", paragraphs,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// DOCXText returns the document's body paragraphs joined with "\n" and the
// paragraph count. Paragraphs inside tables, text boxes and content controls
// are not body paragraphs and are left out.
func DOCXText(path string) (string, int, error) {
	pkg, err := openPackage(path)
	if err != nil {
		return "", 0, err
	}
	defer pkg.Close()

	root, err := pkg.parse(docxMainPart)
	if err != nil {
		return "", 0, err
	}
	body := root.child("body")
	if body == nil {
		return "", 0, common.CodedError(common.CodeExtract, fmt.Errorf("%w: %s: document has no body", common.ErrMalformedDocument, path))
	}

	var lines []string
	for i := range body.Nodes {
		if body.Nodes[i].is("p") {
			lines = append(lines, paragraphText(&body.Nodes[i]))
		}
	}
	return strings.Join(lines, "\n"), len(lines), nil
}

// paragraphText concatenates the runs of a w:p, including runs nested in hyperlinks.
func paragraphText(p *node) string {
	var b strings.Builder
	for i := range p.Nodes {
		c := &p.Nodes[i]
		switch {
		case c.is("r"):
			writeRun(&b, c)
		case c.is("hyperlink"):
			for j := range c.Nodes {
				if c.Nodes[j].is("r") {
					writeRun(&b, &c.Nodes[j])
				}
			}
		}
	}
	return b.String()
}

func writeRun(b *strings.Builder, r *node) {
	for i := range r.Nodes {
		c := &r.Nodes[i]
		switch c.XMLName.Local {
		case "t":
			b.WriteString(c.Content)
		case "tab":
			b.WriteByte('\t')
		case "br", "cr":
			b.WriteByte('\n')
		case "noBreakHyphen":
			b.WriteByte('-')
		}
	}
}
