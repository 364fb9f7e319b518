package markdown

import (
	"regexp"
	"strings"
)

var (
	fencedBlockRe = regexp.MustCompile("```[\\s\\S]*?```")
	punctuationRe = regexp.MustCompile("[#*`\\[\\]()|>-]")
)

// PlainText strips Markdown structure from content for search indexing:
// fenced code blocks are removed entirely, remaining Markdown punctuation is
// blanked, and whitespace runs collapse to single spaces.
func PlainText(content string) string {
	text := fencedBlockRe.ReplaceAllString(content, "")
	text = punctuationRe.ReplaceAllString(text, " ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
