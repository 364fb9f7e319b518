package site

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/wikibuilder/internal/markdown"
)

// Indent step per heading level below h2, in pixels.
const tocIndentStep = 14

var (
	tocLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	tocMarkRe = regexp.MustCompile("[*`]")
)

// tocLabel reduces a raw heading to the plain text shown in the outline.
func tocLabel(text string) string {
	text = tocLinkRe.ReplaceAllString(text, "$1")
	return tocMarkRe.ReplaceAllString(text, "")
}

// renderTOC builds the "On this page" outline from the page's h2..h4
// headings. Pages without subheadings get no outline at all.
func renderTOC(headings []markdown.Heading) string {
	if len(headings) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<aside class=\"toc\">\n")
	sb.WriteString("<div class=\"toc-title\">On this page</div>\n<ul>\n")
	for _, h := range headings {
		indent := (h.Level - 2) * tocIndentStep
		if indent > 0 {
			fmt.Fprintf(&sb, "<li style=\"margin-left: %dpx\">", indent)
		} else {
			sb.WriteString("<li>")
		}
		fmt.Fprintf(&sb, "<a href=\"#%s\">%s</a></li>\n", h.Anchor, html.EscapeString(tocLabel(h.Text)))
	}
	sb.WriteString("</ul>\n</aside>")
	return sb.String()
}
