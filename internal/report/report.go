// Package report writes the per-run search report.
package report

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/common"
	"github.com/joseph-ayodele/infofinder/internal/search"
)

// Render joins the result blocks with "\n", in the order given.
func Render(results []search.Result) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = r.String()
	}
	return strings.Join(blocks, "\n")
}

// Write renders results into search_results.txt under dir, replacing any
// previous report, and returns the report path.
func Write(dir string, results []search.Result) (string, error) {
	path := filepath.Join(dir, constants.ReportFileName)
	if err := os.WriteFile(path, []byte(Render(results)), 0o644); err != nil {
		return "", common.NewAppError(common.CodeIO, "write report", err)
	}
	return path, nil
}
