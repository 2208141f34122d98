// Package files loads local plain-text documents for indexing.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"biorag/internal/domain"
)

// Loader reads .txt files into documents. Paths may contain globs.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

// Load reads every matching .txt file. Unreadable files are skipped
// and reported; only an entirely empty path list is a caller mistake.
func (l *Loader) Load(paths []string) ([]domain.Document, []string, error) {
	var docs []domain.Document
	var skipped []string
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				skipped = append(skipped, fmt.Sprintf("%s: not a .txt file", m))
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("%s: %v", m, err))
				continue
			}
			name := filepath.Base(m)
			docs = append(docs, domain.Document{
				ID:    "file_" + name,
				Title: name,
				Text:  string(data),
			})
		}
	}
	return docs, skipped, nil
}
