package nav

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/wikibuilder/internal/wiki"
)

func TestRelativeHref(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want string
	}{
		{"both at root", "index.html", "setup.html", "setup.html"},
		{"one level up", "modules/auth.html", "overview.html", "../overview.html"},
		{"sibling in subdirectory", "modules/auth.html", "modules/jobs.html", "../modules/jobs.html"},
		{"two levels up", "a/b/page.html", "index.html", "../../index.html"},
		{"root to nested", "index.html", "guides/setup.html", "guides/setup.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeHref(tt.from, tt.to))
		})
	}
}

// Resolving a link from page A to B and then interpreting it relative to A's
// directory must land exactly on B's output path, at any nesting depth.
func TestRelativeHrefRoundTrip(t *testing.T) {
	froms := []string{
		"index.html",
		"a/page.html",
		"a/b/page.html",
		"a/b/c/page.html",
		"a/b/c/d/page.html",
		"a/b/c/d/e/page.html",
	}
	tos := []string{"index.html", "x/target.html", "x/y/z/target.html"}

	for _, from := range froms {
		for _, to := range tos {
			href := RelativeHref(from, to)
			resolved := path.Join(path.Dir(from), href)
			assert.Equal(t, to, resolved, "from %s to %s via %s", from, to, href)
		}
	}
}

func TestBasePrefix(t *testing.T) {
	assert.Equal(t, "", BasePrefix("index.html"))
	assert.Equal(t, "../", BasePrefix("guides/setup.html"))
	assert.Equal(t, "../../", BasePrefix("a/b/page.html"))
}

func testPages() []wiki.Page {
	return []wiki.Page{
		{Slug: "index", Title: "Home", OutputPath: "index.html"},
		{Slug: "guides-setup", Title: "Setup", OutputPath: "guides/setup.html", SectionPath: "guides"},
		{Slug: "guides-tuning", Title: "Tuning", OutputPath: "guides/tuning.html", SectionPath: "guides"},
	}
}

func TestFlatSidebar(t *testing.T) {
	b := NewBuilder(testPages(), nil)
	html := b.Sidebar("guides-setup", "guides/setup.html")

	assert.Contains(t, html, `<a href="../index.html">Home</a>`)
	assert.Contains(t, html, `<a href="../guides/setup.html" class="active">Setup</a>`)
	assert.Equal(t, 1, strings.Count(html, "active"), "exactly one active entry")
	assert.NotContains(t, html, "nav-section", "flat mode has no collapsible groups")
}

func TestHierarchicalSidebar(t *testing.T) {
	sections := []*wiki.Section{
		{Title: "Overview", Pages: []string{"index"}},
		{Title: "Guides", Pages: []string{"guides-setup", "guides-tuning"}},
	}
	b := NewBuilder(testPages(), sections)
	html := b.Sidebar("guides-setup", "guides/setup.html")

	assert.Contains(t, html, `<summary class="nav-section-title">Guides</summary>`)
	// Only the group containing the active page is pre-expanded.
	assert.Equal(t, 1, strings.Count(html, "<details open>"))
	assert.Contains(t, html, `class="active">Setup</a>`)
}

func TestHierarchicalSidebarNestedExpansion(t *testing.T) {
	sections := []*wiki.Section{
		{
			Title: "Top",
			Pages: []string{"index"},
			Subsections: []*wiki.Section{
				{Title: "Inner", Pages: []string{"guides-setup"}},
			},
		},
	}
	b := NewBuilder(testPages(), sections)
	html := b.Sidebar("guides-setup", "guides/setup.html")

	// Active page is in a nested subsection: both ancestors render expanded.
	assert.Equal(t, 2, strings.Count(html, "<details open>"))
}

func TestHierarchicalSidebarUnsectionedTail(t *testing.T) {
	sections := []*wiki.Section{
		{Title: "Guides", Pages: []string{"guides-setup", "guides-tuning"}},
	}
	b := NewBuilder(testPages(), sections)
	html := b.Sidebar("index", "index.html")

	// "index" is claimed by no section and must still be reachable.
	assert.Contains(t, html, `<a href="index.html" class="active">Home</a>`)
}

func TestBreadcrumbs(t *testing.T) {
	sections := []*wiki.Section{
		{
			Title: "Guides",
			Subsections: []*wiki.Section{
				{Title: "Advanced", Pages: []string{"guides-tuning"}},
			},
		},
	}
	pages := testPages()
	b := NewBuilder(pages, sections)

	html := b.Breadcrumbs(pages[2])
	assert.Contains(t, html, "breadcrumb-home")
	assert.Contains(t, html, `<span class="breadcrumb-item">Guides</span>`)
	assert.Contains(t, html, `<span class="breadcrumb-item">Advanced</span>`)
	assert.Contains(t, html, `<span class="breadcrumb-item breadcrumb-current">Tuning</span>`)

	// Trail order: Guides before Advanced before the page title.
	require.Less(t, strings.Index(html, "Guides"), strings.Index(html, "Advanced"))
	require.Less(t, strings.Index(html, "Advanced"), strings.Index(html, "Tuning"))
}

func TestBreadcrumbsAbsent(t *testing.T) {
	pages := testPages()

	flat := NewBuilder(pages, nil)
	assert.Empty(t, flat.Breadcrumbs(pages[0]), "no tree, no breadcrumbs")

	sections := []*wiki.Section{{Title: "Guides", Pages: []string{"guides-setup"}}}
	b := NewBuilder(pages, sections)
	assert.Empty(t, b.Breadcrumbs(pages[0]), "page outside every section gets no breadcrumbs")
}
