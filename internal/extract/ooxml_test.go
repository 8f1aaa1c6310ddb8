package extract

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/common"
)

const (
	nsW = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	nsP = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
)

// writeZip creates name under dir holding the given parts.
func writeZip(t *testing.T, dir, name string, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for part, body := range parts {
		w, err := zw.Create(part)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func docxDocument(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + nsW + `><w:body>` + body + `</w:body></w:document>`
}

func TestDOCXText(t *testing.T) {
	body := `<w:p><w:r><w:t>Suburban </w:t></w:r><w:r><w:t>Sprawl</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:hyperlink r:id="rId9"><w:r><w:t>Levittown</w:t></w:r></w:hyperlink><w:r><w:tab/><w:t>1947</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>in a table</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:t>self</w:t><w:noBreakHyphen/><w:t>storage</w:t><w:br/><w:t>end</w:t></w:r></w:p>` +
		`<w:sectPr/>`
	path := writeZip(t, t.TempDir(), "notes.docx", map[string]string{
		"word/document.xml": docxDocument(body),
	})

	text, n, err := DOCXText(path)
	if err != nil {
		t.Fatalf("DOCXText: %v", err)
	}
	want := "Suburban Sprawl\n\nLevittown\t1947\nself-storage\nend"
	if text != want {
		t.Fatalf("text = %q, want %q", text, want)
	}
	if n != 4 {
		t.Fatalf("paragraphs = %d, want 4", n)
	}
}

func TestDOCXExtractorWritesArtifact(t *testing.T) {
	path := writeZip(t, t.TempDir(), "Memo.DOCX", map[string]string{
		"word/document.xml": docxDocument(`<w:p><w:r><w:t>hello</w:t></w:r></w:p>`),
	})
	out, err := NewDOCXExtractor(testLogger()).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if out != constants.TextPathFor(path) {
		t.Fatalf("out = %s", out)
	}
	if got := readFile(t, out); got != "hello" {
		t.Fatalf("artifact = %q", got)
	}
}

func TestDOCXMalformed(t *testing.T) {
	dir := t.TempDir()

	notZip := filepath.Join(dir, "broken.docx")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	noMain := writeZip(t, dir, "empty.docx", map[string]string{"[Content_Types].xml": "<Types/>"})
	badXML := writeZip(t, dir, "bad.docx", map[string]string{"word/document.xml": "<w:document><w:body>"})

	for _, path := range []string{notZip, noMain, badXML} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := NewDOCXExtractor(testLogger()).Extract(context.Background(), path)
			if !errors.Is(err, common.ErrMalformedDocument) {
				t.Fatalf("err = %v, want ErrMalformedDocument", err)
			}
			if _, err := os.Stat(constants.TextPathFor(path)); !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("artifact must not be written for a malformed document")
			}
		})
	}
}

func pptxSlide(tree string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld ` + nsP + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr/><p:grpSpPr/>` + tree +
		`</p:spTree></p:cSld></p:sld>`
}

func shape(paras ...string) string {
	var b strings.Builder
	b.WriteString(`<p:sp><p:nvSpPr/><p:spPr/><p:txBody><a:bodyPr/>`)
	for _, p := range paras {
		b.WriteString(`<a:p>` + p + `</a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

func run(text string) string {
	return `<a:r><a:rPr lang="en-US"/><a:t>` + text + `</a:t></a:r>`
}

func TestPPTXTextFollowsPresentationOrder(t *testing.T) {
	// slide2.xml is listed first in the presentation.
	parts := map[string]string{
		"ppt/presentation.xml": `<p:presentation ` + nsP + `><p:sldIdLst>` +
			`<p:sldId id="256" r:id="rId3"/><p:sldId id="257" r:id="rId2"/>` +
			`</p:sldIdLst></p:presentation>`,
		"ppt/_rels/presentation.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>` +
			`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide2.xml"/>` +
			`</Relationships>`,
		"ppt/slides/slide1.xml": pptxSlide(shape(run("second"))),
		"ppt/slides/slide2.xml": pptxSlide(shape(run("first"))),
	}
	path := writeZip(t, t.TempDir(), "deck.pptx", parts)

	text, slides, err := PPTXText(path)
	if err != nil {
		t.Fatalf("PPTXText: %v", err)
	}
	if text != "first\nsecond" {
		t.Fatalf("text = %q", text)
	}
	if slides != 2 {
		t.Fatalf("slides = %d", slides)
	}
}

func TestPPTXTextShapes(t *testing.T) {
	tree := shape(run("Title"), run("Sub")+`<a:br/>`+run("line")) +
		`<p:pic><p:nvPicPr/><p:blipFill/></p:pic>` +
		`<p:sp><p:nvSpPr/><p:spPr/></p:sp>` +
		`<p:grpSp><p:nvGrpSpPr/><p:grpSpPr/>` + shape(run("grouped")) + `</p:grpSp>` +
		shape(`<a:fld id="{1}" type="slidenum"><a:t>3</a:t></a:fld>`)

	// No presentation part: slides are ordered by number, slide10 after slide2.
	parts := map[string]string{
		"ppt/slides/slide2.xml":  pptxSlide(tree),
		"ppt/slides/slide10.xml": pptxSlide(shape(run("last"))),
	}
	path := writeZip(t, t.TempDir(), "deck.pptx", parts)

	text, slides, err := PPTXText(path)
	if err != nil {
		t.Fatalf("PPTXText: %v", err)
	}
	want := "Title\nSub\vline\ngrouped\n3\nlast"
	if text != want {
		t.Fatalf("text = %q, want %q", text, want)
	}
	if slides != 2 {
		t.Fatalf("slides = %d", slides)
	}
}

func TestPPTXExtractorWritesArtifact(t *testing.T) {
	path := writeZip(t, t.TempDir(), "talk.pptx", map[string]string{
		"ppt/slides/slide1.xml": pptxSlide(shape(run("urban renewal"))),
	})
	out, err := NewPPTXExtractor(testLogger()).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := readFile(t, out); got != "urban renewal" {
		t.Fatalf("artifact = %q", got)
	}
}

func TestPPTXMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pptx")
	if err := os.WriteFile(path, []byte("PK but not really"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := PPTXText(path)
	if !errors.Is(err, common.ErrMalformedDocument) {
		t.Fatalf("err = %v, want ErrMalformedDocument", err)
	}
}
