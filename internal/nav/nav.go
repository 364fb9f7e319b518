// Package nav computes the navigation chrome for one rendered page: relative
// links between output paths, the sidebar tree (flat or hierarchical), and
// the breadcrumb trail.
package nav

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/wikibuilder/internal/wiki"
)

// RelativeHref computes the minimal relative URL from one output path to
// another, both measured from the site output root. One parent-directory
// segment is emitted per directory component in the source page's path.
func RelativeHref(fromPath, toPath string) string {
	depth := pathDepth(fromPath)
	if depth == 0 {
		return toPath
	}
	ups := make([]string, depth)
	for i := range ups {
		ups[i] = ".."
	}
	return strings.Join(ups, "/") + "/" + toPath
}

// BasePrefix returns the "../" chain that takes a page's directory back to
// the site root, or the empty string for root-level pages. The client search
// script prepends it to index URLs.
func BasePrefix(fromPath string) string {
	depth := pathDepth(fromPath)
	if depth == 0 {
		return ""
	}
	ups := make([]string, depth)
	for i := range ups {
		ups[i] = ".."
	}
	return strings.Join(ups, "/") + "/"
}

func pathDepth(outputPath string) int {
	return strings.Count(outputPath, "/")
}

// Builder renders sidebar and breadcrumb HTML for pages of one build. The
// page list and section tree are finalized before the first call and shared
// by every page render.
type Builder struct {
	pages    []wiki.Page
	sections []*wiki.Section // nil in flat mode
	bySlug   map[string]wiki.Page
}

// NewBuilder creates a Builder over the finalized page list and section tree.
func NewBuilder(pages []wiki.Page, sections []*wiki.Section) *Builder {
	bySlug := make(map[string]wiki.Page, len(pages))
	for _, p := range pages {
		bySlug[p.Slug] = p
	}
	return &Builder{pages: pages, sections: sections, bySlug: bySlug}
}

// Sidebar renders the sidebar list items for the page identified by
// activeSlug, whose own output path is currentPath. Flat mode lists every
// page in discovery order; hierarchical mode renders one collapsible group
// per section, pre-expanded only on the trail containing the active page.
func (b *Builder) Sidebar(activeSlug, currentPath string) string {
	if len(b.sections) == 0 {
		return b.flatSidebar(activeSlug, currentPath)
	}
	return b.hierarchicalSidebar(activeSlug, currentPath)
}

func (b *Builder) flatSidebar(activeSlug, currentPath string) string {
	items := make([]string, len(b.pages))
	for i, p := range b.pages {
		items[i] = "<li>" + b.pageLink(p, activeSlug, currentPath) + "</li>"
	}
	return strings.Join(items, "\n")
}

func (b *Builder) hierarchicalSidebar(activeSlug, currentPath string) string {
	var sb strings.Builder
	for _, sec := range b.sections {
		b.writeSection(&sb, sec, activeSlug, currentPath, 0)
	}

	// Pages no section claimed render as an unsectioned tail, in discovery
	// order. Possible only when a config hand-picks a subset.
	claimed := wiki.SectionedSlugs(b.sections)
	for _, p := range b.pages {
		if _, ok := claimed[p.Slug]; ok {
			continue
		}
		sb.WriteString("<li>" + b.pageLink(p, activeSlug, currentPath) + "</li>\n")
	}
	return sb.String()
}

func (b *Builder) writeSection(sb *strings.Builder, sec *wiki.Section, activeSlug, currentPath string, depth int) {
	openAttr := ""
	if sec.Contains(activeSlug) {
		openAttr = " open"
	}
	indent := strings.Repeat("  ", depth)

	fmt.Fprintf(sb, "%s<li class=\"nav-section\">\n", indent)
	fmt.Fprintf(sb, "%s  <details%s>\n", indent, openAttr)
	fmt.Fprintf(sb, "%s    <summary class=\"nav-section-title\">%s</summary>\n", indent, sec.Title)
	fmt.Fprintf(sb, "%s    <ul class=\"nav-section-pages\">\n", indent)

	for _, slug := range sec.Pages {
		p, known := b.bySlug[slug]
		if !known {
			continue
		}
		fmt.Fprintf(sb, "%s      <li>%s</li>\n", indent, b.pageLink(p, activeSlug, currentPath))
	}
	for _, sub := range sec.Subsections {
		b.writeSection(sb, sub, activeSlug, currentPath, depth+1)
	}

	fmt.Fprintf(sb, "%s    </ul>\n", indent)
	fmt.Fprintf(sb, "%s  </details>\n", indent)
	fmt.Fprintf(sb, "%s</li>\n", indent)
}

func (b *Builder) pageLink(p wiki.Page, activeSlug, currentPath string) string {
	active := ""
	if p.Slug == activeSlug {
		active = ` class="active"`
	}
	return fmt.Sprintf(`<a href="%s"%s>%s</a>`, RelativeHref(currentPath, p.OutputPath), active, p.Title)
}

// breadcrumbHomeIcon is the inline home glyph opening every breadcrumb trail.
const breadcrumbHomeIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 20" fill="currentColor">` +
	`<path d="M10.707 2.293a1 1 0 00-1.414 0l-7 7a1 1 0 001.414 1.414L4 10.414V17a1 1 0 001 1h2a1 1 0 ` +
	`001-1v-2a1 1 0 011-1h2a1 1 0 011 1v2a1 1 0 001 1h2a1 1 0 001-1v-6.586l.293.293a1 1 0 ` +
	`001.414-1.414l-7-7z"/></svg>`

// Breadcrumbs renders the breadcrumb trail for page: home marker, the chain
// of section titles leading to the first section that claims the page's slug,
// and the page's own title as the non-linked terminal element. Empty when no
// section tree exists or no section claims the page.
func (b *Builder) Breadcrumbs(page wiki.Page) string {
	if len(b.sections) == 0 {
		return ""
	}
	trail, ok := wiki.FindTrail(b.sections, page.Slug)
	if !ok {
		return ""
	}

	crumbs := []string{`<span class="breadcrumb-home">` + breadcrumbHomeIcon + `</span>`}
	for _, title := range trail {
		crumbs = append(crumbs,
			`<span class="breadcrumb-sep">&rsaquo;</span>`,
			`<span class="breadcrumb-item">`+title+`</span>`)
	}
	crumbs = append(crumbs,
		`<span class="breadcrumb-sep">&rsaquo;</span>`,
		`<span class="breadcrumb-item breadcrumb-current">`+page.Title+`</span>`)

	return `<nav class="breadcrumbs">` + strings.Join(crumbs, "") + `</nav>`
}
