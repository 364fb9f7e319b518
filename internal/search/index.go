// Package search assembles the client-side search index: one entry of plain
// text per page, built once and embedded identically into every emitted page.
package search

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/wikibuilder/internal/markdown"
	"git.home.luguber.info/inful/wikibuilder/internal/wiki"
)

// MaxTextLength caps the indexed plain text per page, keeping the embedded
// index manageable.
const MaxTextLength = 3000

// Entry is one page's search record. URL is the page's output path relative
// to the site root; the client script prepends the per-page base prefix.
type Entry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// Index is the ordered list of entries, matching discovery order.
type Index []Entry

// Build reads every page's source text and produces the index.
func Build(inputDir string, pages []wiki.Page) (Index, error) {
	index := make(Index, 0, len(pages))
	for _, p := range pages {
		content, err := os.ReadFile(filepath.Join(inputDir, filepath.FromSlash(p.SourcePath)))
		if err != nil {
			return nil, fmt.Errorf("read page for indexing: %s: %w", p.SourcePath, err)
		}
		index = append(index, Entry{
			Title: p.Title,
			URL:   p.OutputPath,
			Text:  truncate(markdown.PlainText(string(content)), MaxTextLength),
		})
	}
	return index, nil
}

// JSON serializes the index for embedding into the page shell.
func (ix Index) JSON() (string, error) {
	data, err := json.Marshal(ix)
	if err != nil {
		return "", fmt.Errorf("marshal search index: %w", err)
	}
	return string(data), nil
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
