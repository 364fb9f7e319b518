package markdown

import "regexp"

// Inline span rules, applied to escaped text inside text-bearing leaves
// (text lines, headings, list items, quote lines, table cells). Fenced code
// bodies never pass through here. Ordering is significant: triple asterisks
// before double before single so the more specific span is not partially
// consumed, and images before links so the image bang prefix is not matched
// as a link.
var (
	boldItalicRe = regexp.MustCompile(`\*\*\*(.*?)\*\*\*`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
)

func renderInline(s string) string {
	s = boldItalicRe.ReplaceAllString(s, "<strong><em>$1</em></strong>")
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	s = imageRe.ReplaceAllString(s, `<img src="$2" alt="$1">`)
	s = linkRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := linkRe.FindStringSubmatch(m)
		return `<a href="` + rewriteLinkTarget(parts[2]) + `">` + parts[1] + `</a>`
	})
	s = inlineCodeRe.ReplaceAllString(s, "<code>$1</code>")
	return s
}
