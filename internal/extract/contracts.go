package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/common"
)

// TextExtractor converts one source document into one plain-text artifact
// and returns the artifact's path.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorFunc adapts a function to TextExtractor.
type ExtractorFunc func(ctx context.Context, path string) (string, error)

func (f ExtractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Registry dispatches documents to the extractor registered for their format.
type Registry struct {
	handlers map[constants.Format]TextExtractor
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[constants.Format]TextExtractor)}
}

// Register sets the extractor for a format, replacing any previous one.
func (r *Registry) Register(format constants.Format, x TextExtractor) *Registry {
	r.handlers[format] = x
	return r
}

// Lookup returns the extractor for path and its format. ok is false when the
// extension is not recognized or nothing is registered for it.
func (r *Registry) Lookup(path string) (x TextExtractor, format constants.Format, ok bool) {
	format = constants.FormatOf(path)
	if format == "" {
		return nil, "", false
	}
	x, ok = r.handlers[format]
	return x, format, ok
}

// Supports reports whether path has a registered format.
func (r *Registry) Supports(path string) bool {
	_, _, ok := r.Lookup(path)
	return ok
}

// Extract dispatches path to its extractor.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	x, _, ok := r.Lookup(path)
	if !ok {
		return "", common.CodedError(common.CodeExtract, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, path))
	}
	return x.Extract(ctx, path)
}

// writeArtifact creates or truncates the text artifact at path.
func writeArtifact(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return common.NewAppError(common.CodeIO, "write "+path, err)
	}
	return nil
}
