// Package corpus concatenates the text artifacts of a directory.
package corpus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/common"
	"github.com/joseph-ayodele/infofinder/internal/textio"
)

// Combine writes every .txt file of dir, in name order, into dir/output,
// each followed by "\n". output itself and the exclude names are skipped.
// Inputs that are not valid UTF-8 are read as ISO-8859-1; the output is
// always UTF-8. It returns the number of files combined.
func Combine(dir, output string, exclude ...string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, common.NewAppError(common.CodeIO, "list "+dir, err)
	}
	skip := map[string]bool{output: true}
	for _, name := range exclude {
		skip[name] = true
	}

	var parts []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || skip[name] || !strings.HasSuffix(name, constants.TextExt) {
			continue
		}
		text, err := textio.ReadWithFallback(filepath.Join(dir, name))
		if err != nil {
			return 0, common.NewAppError(common.CodeIO, "read "+name, err)
		}
		parts = append(parts, text)
	}

	path := filepath.Join(dir, output)
	f, err := os.Create(path)
	if err != nil {
		return 0, common.NewAppError(common.CodeIO, "create "+output, err)
	}
	w := bufio.NewWriter(f)
	for _, text := range parts {
		if _, err := w.WriteString(text + "\n"); err != nil {
			f.Close()
			return 0, common.NewAppError(common.CodeIO, "write "+output, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return 0, common.NewAppError(common.CodeIO, "write "+output, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", path, err)
	}
	return len(parts), nil
}
