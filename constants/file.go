package constants

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Format is the document format tag derived from a file extension.
type Format string

const (
	PDF  Format = "PDF"
	DOCX Format = "DOCX"
	PPTX Format = "PPTX"
)

// Output artifacts written at the root of the processed directory.
const (
	TextExt          = ".txt"
	ReportFileName   = "search_results.txt"
	CorpusFileName   = "ALL.txt"
	iterationPattern = "_iteration"
)

// extFormats maps lowercased extensions (without '.') to their format.
var extFormats = map[string]Format{
	"pdf":  PDF,
	"docx": DOCX,
	"pptx": PPTX,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the format for ext, or "" when the extension is not recognized.
func MapExtToFormat(ext string) Format {
	return extFormats[NormalizeExt(ext)]
}

// FormatOf returns the format of the file at path.
func FormatOf(path string) Format {
	return MapExtToFormat(filepath.Ext(path))
}

// TextPathFor returns the text artifact path for a source document:
// the source path with its extension replaced by .txt.
func TextPathFor(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + TextExt
}

// IterationPathFor returns the transient artifact path of one PDF reconcile iteration.
func IterationPathFor(path string, iteration int) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + iterationPattern + strconv.Itoa(iteration) + TextExt
}
