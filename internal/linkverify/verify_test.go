package linkverify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestExtractLinks(t *testing.T) {
	doc := `<html><body>
<a href="guide.html">Guide</a>
<img src="logo.png" alt="logo">
<script src="assets/search.js"></script>
<link rel="stylesheet" href="assets/wiki.css">
<a>no href</a>
</body></html>`

	links, err := extractLinks(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, links, 4)
	assert.Equal(t, Link{URL: "guide.html", Tag: "a", Attribute: "href"}, links[0])
	assert.Equal(t, Link{URL: "logo.png", Tag: "img", Attribute: "src"}, links[1])
	assert.Equal(t, Link{URL: "assets/search.js", Tag: "script", Attribute: "src"}, links[2])
	assert.Equal(t, Link{URL: "assets/wiki.css", Tag: "link", Attribute: "href"}, links[3])
}

func TestIsVerifiable(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"guide.html", true},
		{"../index.html", true},
		{"assets/wiki.css", true},
		{"#section", false},
		{"", false},
		{"https://example.com/page", false},
		{"mailto:docs@example.com", false},
		{"tel:+123", false},
		{"data:image/png;base64,xyz", false},
		{"//cdn.example.com/lib.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, isVerifiable(tt.url))
		})
	}
}

func TestVerifyCleanSite(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<a href="guides/setup.html">Setup</a><link href="assets/wiki.css">`)
	writeFile(t, site, "guides/setup.html", `<a href="../index.html">Home</a><a href="#install">Install</a>`)
	writeFile(t, site, "assets/wiki.css", "body{}")

	issues, err := Verify(site)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestVerifyReportsMissingTargets(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<a href="missing.html">Gone</a><a href="docs/also-gone.html">Gone too</a>`)
	writeFile(t, site, "docs/page.html", `<a href="../missing.html">Gone</a>`)

	issues, err := Verify(site)
	require.NoError(t, err)
	require.Len(t, issues, 3)

	// Sorted by page, then by reference.
	assert.Equal(t, Issue{Page: "docs/page.html", URL: "../missing.html", Target: "missing.html"}, issues[0])
	assert.Equal(t, Issue{Page: "index.html", URL: "docs/also-gone.html", Target: "docs/also-gone.html"}, issues[1])
	assert.Equal(t, Issue{Page: "index.html", URL: "missing.html", Target: "missing.html"}, issues[2])
}

func TestVerifyIgnoresFragmentsAndQueries(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<a href="page.html#section">Anchor</a><a href="page.html?v=2">Query</a>`)
	writeFile(t, site, "page.html", "<p>ok</p>")

	issues, err := Verify(site)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestVerifyIgnoresLinksEscapingRoot(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<a href="../outside.html">Out</a>`)

	issues, err := Verify(site)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestIssueString(t *testing.T) {
	issue := Issue{Page: "index.html", URL: "x.html", Target: "x.html"}
	assert.Equal(t, "index.html: x.html -> x.html (missing)", issue.String())
}
