// Package markdown converts one document's Markdown text into an HTML body
// fragment, plus the derived per-page artifacts (title, heading list, plain
// text for search indexing). Rendering is a pure function of the input text:
// it never consults other pages, the section tree, or the search index.
//
// The supported syntax is a deliberate subset: ATX headings (levels 1-4),
// horizontal rules, asterisk emphasis, links and images, flat single-level
// lists, block quotes, fenced code blocks (with mermaid diagram support),
// inline code, and pipe tables. Nested lists and paragraph wrapping are
// intentionally not supported; bare text lines pass through unmodified.
package markdown

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/wikibuilder/internal/wiki"
)

// DiagramLanguage is the fence language tag rendered as a client-side diagram
// container instead of a code block.
const DiagramLanguage = "mermaid"

// rawTags are the only HTML tags allowed to pass through from source
// Markdown. Everything else is escaped. Both are block-disclosure tags
// commonly authored in wiki pages; the content is static and authored, so the
// pass-through is not an injection surface.
var rawTags = []string{"details", "summary"}

var (
	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	rawRestorer = newRawRestorer()
)

func newRawRestorer() *strings.Replacer {
	var pairs []string
	for _, tag := range rawTags {
		pairs = append(pairs,
			"&lt;"+tag+"&gt;", "<"+tag+">",
			"&lt;/"+tag+"&gt;", "</"+tag+">",
		)
	}
	return strings.NewReplacer(pairs...)
}

// escapeText escapes the three HTML metacharacters and then restores the
// whitelisted raw tags.
func escapeText(s string) string {
	return rawRestorer.Replace(htmlEscaper.Replace(s))
}

// ToHTML renders Markdown content to an HTML body fragment.
func ToHTML(content string) string {
	blocks := scanBlocks(strings.Split(content, "\n"))
	rendered := make([]string, len(blocks))
	for i, b := range blocks {
		rendered[i] = renderBlock(b)
	}
	return strings.Join(rendered, "\n")
}

func renderBlock(b block) string {
	switch b.kind {
	case blockHeading:
		return fmt.Sprintf(`<h%d id="%s">%s</h%d>`,
			b.level, Anchor(b.text), renderInline(escapeText(b.text)), b.level)
	case blockRule:
		return "<hr>"
	case blockList:
		tag := "ul"
		if b.ordered {
			tag = "ol"
		}
		items := make([]string, len(b.items))
		for i, item := range b.items {
			items[i] = "<li>" + renderInline(escapeText(item)) + "</li>"
		}
		return "<" + tag + ">" + strings.Join(items, "\n") + "</" + tag + ">"
	case blockQuote:
		lines := make([]string, len(b.items))
		for i, line := range b.items {
			lines[i] = renderInline(escapeText(line))
		}
		return "<blockquote>" + strings.Join(lines, "\n") + "</blockquote>"
	case blockCode:
		langAttr := ""
		if b.lang != "" {
			langAttr = ` class="language-` + b.lang + `"`
		}
		return "<pre><code" + langAttr + ">" + escapeText(fenceContent(b.lines)) + "</code></pre>"
	case blockDiagram:
		return `<div class="mermaid">` + escapeText(fenceContent(b.lines)) + "</div>"
	case blockTable:
		return renderTable(b.rows)
	default:
		return renderInline(escapeText(b.text))
	}
}

// fenceContent joins fenced lines back into the captured body, including the
// trailing newline of the last line.
func fenceContent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderTable(rows [][]string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="table-wrapper"><table>`)
	for i, row := range rows {
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<" + tag + ">" + renderInline(escapeText(cell)) + "</" + tag + ">")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table></div>")
	return sb.String()
}

// rewriteLinkTarget swaps the source document extension for the output
// extension in link targets, preserving any fragment.
func rewriteLinkTarget(href string) string {
	switch {
	case strings.HasSuffix(href, wiki.SourceExtension):
		return strings.TrimSuffix(href, wiki.SourceExtension) + wiki.OutputExtension
	case strings.Contains(href, wiki.SourceExtension+"#"):
		return strings.ReplaceAll(href, wiki.SourceExtension+"#", wiki.OutputExtension+"#")
	}
	return href
}
