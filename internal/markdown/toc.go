package markdown

import (
	"regexp"
	"strings"
)

// TOC heading levels: level 1 is the page title and excluded, levels 2-4 form
// the in-page table of contents.
const (
	tocMinLevel = 2
	tocMaxLevel = 4
)

// Heading is one table-of-contents entry derived from a level 2-4 heading.
type Heading struct {
	Level  int
	Text   string
	Anchor string
}

var (
	tocHeadingRe = regexp.MustCompile(`(?m)^(#{2,4})\s+(.+)$`)
	titleRe      = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	anchorStrip  = regexp.MustCompile(`[^\w\s-]`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

// Anchor derives the URL-safe in-page anchor from a heading's text:
// lowercased, every character outside word/whitespace/hyphen stripped, runs
// of whitespace collapsed to single hyphens, leading and trailing hyphens
// trimmed.
func Anchor(text string) string {
	a := anchorStrip.ReplaceAllString(strings.ToLower(text), "")
	a = spaceRunRe.ReplaceAllString(a, "-")
	return strings.Trim(a, "-")
}

// ExtractTOC scans raw Markdown for level 2-4 headings in document order.
func ExtractTOC(content string) []Heading {
	var toc []Heading
	for _, m := range tocHeadingRe.FindAllStringSubmatch(content, -1) {
		text := strings.TrimSpace(m[2])
		toc = append(toc, Heading{
			Level:  len(m[1]),
			Text:   text,
			Anchor: Anchor(text),
		})
	}
	return toc
}

// ExtractTitle returns the first level-1 heading, or fallback when the
// document has none.
func ExtractTitle(content, fallback string) string {
	if m := titleRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return fallback
}
