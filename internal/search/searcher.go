// Package search scans text artifacts for an ordered list of terms.
package search

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/infofinder/internal/textio"
)

// ParagraphSeparator splits a text artifact into paragraphs.
const ParagraphSeparator = "\n\n"

// Result is the outcome of looking up one term in one text artifact.
type Result struct {
	Term      string
	Path      string
	Paragraph string // first paragraph containing Term; empty when not found
	Found     bool
}

// String renders the result as a report block.
func (r Result) String() string {
	if r.Found {
		return fmt.Sprintf("Found '%s' in %s:\n%s\n\n", r.Term, r.Path, r.Paragraph)
	}
	return fmt.Sprintf("'%s' not found in %s - marked as impossible.\n\n", r.Term, r.Path)
}

// Search reads the text artifact at path and returns exactly one result per
// term, in term order. Undecodable bytes are dropped; only I/O errors are
// returned.
func Search(path string, terms []string) ([]Result, error) {
	text, err := textio.ReadPermissive(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return SearchText(path, text, terms), nil
}

// SearchText is Search over text already in memory. path is only used to
// label the results.
func SearchText(path, text string, terms []string) []Result {
	paragraphs := strings.Split(text, ParagraphSeparator)
	lowered := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		lowered[i] = strings.ToLower(p)
	}

	results := make([]Result, 0, len(terms))
	for _, term := range terms {
		r := Result{Term: term, Path: path}
		if i := firstParagraph(lowered, strings.ToLower(term)); i >= 0 {
			r.Paragraph, r.Found = paragraphs[i], true
		}
		results = append(results, r)
	}
	return results
}

// firstParagraph returns the index of the first non-empty paragraph that
// contains term, or -1.
func firstParagraph(lowered []string, term string) int {
	for i, p := range lowered {
		if p != "" && strings.Contains(p, term) {
			return i
		}
	}
	return -1
}
