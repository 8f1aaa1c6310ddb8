// Package ingest lists the documents of a working directory.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/infofinder/constants"
)

// Document is a recognized source file found in the directory.
type Document struct {
	Path   string
	Name   string
	Format constants.Format
}

type DirStats struct {
	Scanned uint32 // regular files seen
	Matched uint32 // files with a recognized format
	Skipped uint32 // files with an unrecognized extension
	Hidden  uint32 // dot-files left out because SkipHidden was set
}

type ListOptions struct {
	SkipHidden bool
}

// ListDocuments reads dir one level deep, in name order, and returns the
// files whose extension maps to a known format. Subdirectories are ignored
// and unrecognized files are only counted.
func ListDocuments(dir string, opts ListOptions) ([]Document, DirStats, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, DirStats{}, errors.New("directory is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, DirStats{}, fmt.Errorf("read dir: %w", err)
	}

	var docs []Document
	var stats DirStats
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		stats.Scanned++
		if opts.SkipHidden && IsHidden(name) {
			stats.Hidden++
			continue
		}
		format := constants.FormatOf(name)
		if format == "" {
			stats.Skipped++
			continue
		}
		stats.Matched++
		docs = append(docs, Document{
			Path:   filepath.Join(dir, name),
			Name:   name,
			Format: format,
		})
	}
	return docs, stats, nil
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
