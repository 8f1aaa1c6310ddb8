package extract

import (
	"context"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/common"
)

const (
	pptxPresentationPart = "ppt/presentation.xml"
	pptxPresentationRels = "ppt/_rels/presentation.xml.rels"
	pptxSlidePrefix      = "ppt/slides/slide"
)

// PPTXExtractor writes the text of every text-bearing shape, slide by slide,
// one shape per line.
type PPTXExtractor struct {
	logger *slog.Logger
}

func NewPPTXExtractor(logger *slog.Logger) *PPTXExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PPTXExtractor{logger: logger}
}

func (x *PPTXExtractor) Extract(ctx context.Context, p string) (string, error) {
	start := time.Now()
	text, slides, err := PPTXText(p)
	if err != nil {
		return "", err
	}
	out := constants.TextPathFor(p)
	if err := writeArtifact(out, text); err != nil {
		return "", err
	}
	common.LoggerFromContext(ctx, x.logger).Info("pptx extracted",
		"path", p,
		"slides", slides,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// PPTXText returns the texts of all shapes that have a text body, in
// slide-then-shape order, joined with "\n", and the number of slides read.
// Shapes inside groups are visited in place of the group.
func PPTXText(p string) (string, int, error) {
	pkg, err := openPackage(p)
	if err != nil {
		return "", 0, err
	}
	defer pkg.Close()

	slides, err := slideParts(pkg)
	if err != nil {
		return "", 0, err
	}

	var texts []string
	for _, part := range slides {
		root, err := pkg.parse(part)
		if err != nil {
			return "", 0, err
		}
		cSld := root.child("cSld")
		if cSld == nil {
			continue
		}
		if tree := cSld.child("spTree"); tree != nil {
			texts = collectShapeTexts(tree, texts)
		}
	}
	return strings.Join(texts, "\n"), len(slides), nil
}

// slideParts lists slide part names in presentation order. The order comes
// from the slide id list when the package has one, otherwise from the slide
// file numbers.
func slideParts(pkg *ooxmlPackage) ([]string, error) {
	if pkg.has(pptxPresentationPart) && pkg.has(pptxPresentationRels) {
		parts, err := slidePartsFromPresentation(pkg)
		if err != nil {
			return nil, err
		}
		if len(parts) > 0 {
			return parts, nil
		}
	}

	var parts []string
	for name := range pkg.files {
		if strings.HasPrefix(name, pptxSlidePrefix) && strings.HasSuffix(name, ".xml") {
			if _, ok := slideNumber(name); ok {
				parts = append(parts, name)
			}
		}
	}
	sort.Slice(parts, func(i, j int) bool {
		a, _ := slideNumber(parts[i])
		b, _ := slideNumber(parts[j])
		return a < b
	})
	return parts, nil
}

func slidePartsFromPresentation(pkg *ooxmlPackage) ([]string, error) {
	rels, err := pkg.parse(pptxPresentationRels)
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(rels.Nodes))
	for i := range rels.Nodes {
		r := &rels.Nodes[i]
		if r.is("Relationship") {
			targets[r.attr("Id")] = r.attr("Target")
		}
	}

	pres, err := pkg.parse(pptxPresentationPart)
	if err != nil {
		return nil, err
	}
	ids := pres.child("sldIdLst")
	if ids == nil {
		return nil, nil
	}
	var parts []string
	for i := range ids.Nodes {
		id := &ids.Nodes[i]
		if !id.is("sldId") {
			continue
		}
		target, ok := targets[id.nsAttr("id")]
		if !ok {
			continue
		}
		name := resolvePart("ppt", target)
		if pkg.has(name) {
			parts = append(parts, name)
		}
	}
	return parts, nil
}

// resolvePart resolves a relationship target against the source part's directory.
func resolvePart(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(dir, target)
}

func slideNumber(name string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, pptxSlidePrefix), ".xml"))
	return n, err == nil
}

// collectShapeTexts appends the text of every p:sp with a text body under
// tree, in document order, descending into group shapes.
func collectShapeTexts(tree *node, texts []string) []string {
	for i := range tree.Nodes {
		c := &tree.Nodes[i]
		switch {
		case c.is("sp"):
			if body := c.child("txBody"); body != nil {
				texts = append(texts, textBodyText(body))
			}
		case c.is("grpSp"):
			// Grouped text boxes are read in tree order like top-level shapes.
			texts = collectShapeTexts(c, texts)
		}
	}
	return texts
}

// textBodyText joins the a:p paragraphs of a text body with "\n". Line
// breaks inside a paragraph become a vertical tab.
func textBodyText(body *node) string {
	var paras []string
	for i := range body.Nodes {
		p := &body.Nodes[i]
		if !p.is("p") {
			continue
		}
		var b strings.Builder
		for j := range p.Nodes {
			c := &p.Nodes[j]
			switch {
			case c.is("r"), c.is("fld"):
				if t := c.child("t"); t != nil {
					b.WriteString(t.Content)
				}
			case c.is("br"):
				b.WriteByte('\v')
			}
		}
		paras = append(paras, b.String())
	}
	return strings.Join(paras, "\n")
}
