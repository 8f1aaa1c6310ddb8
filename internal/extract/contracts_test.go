package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/common"
)

func TestRegistryDispatch(t *testing.T) {
	var called []string
	stub := func(tag string) TextExtractor {
		return ExtractorFunc(func(_ context.Context, path string) (string, error) {
			called = append(called, tag+":"+path)
			return constants.TextPathFor(path), nil
		})
	}
	r := NewRegistry().
		Register(constants.PDF, stub("pdf")).
		Register(constants.DOCX, stub("docx"))

	tests := []struct {
		path       string
		wantFormat constants.Format
		wantOK     bool
	}{
		{"a.pdf", constants.PDF, true},
		{"B.PDF", constants.PDF, true},
		{"c.docx", constants.DOCX, true},
		{"d.pptx", constants.PPTX, false}, // recognized, nothing registered
		{"e.csv", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, format, ok := r.Lookup(tt.path)
			if format != tt.wantFormat || ok != tt.wantOK {
				t.Fatalf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.path, format, ok, tt.wantFormat, tt.wantOK)
			}
			if r.Supports(tt.path) != tt.wantOK {
				t.Fatalf("Supports(%q) != %v", tt.path, tt.wantOK)
			}
		})
	}

	out, err := r.Extract(context.Background(), "dir/B.PDF")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if out != "dir/B.txt" {
		t.Fatalf("out = %q", out)
	}
	if len(called) != 1 || called[0] != "pdf:dir/B.PDF" {
		t.Fatalf("called = %v", called)
	}

	_, err = r.Extract(context.Background(), "sheet.csv")
	if !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if common.CodeOf(err) != common.CodeExtract {
		t.Fatalf("code = %q, want %q", common.CodeOf(err), common.CodeExtract)
	}
}
