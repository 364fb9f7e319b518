package site

import (
	"embed"
	"html"
	"strings"
	"text/template"
)

//go:embed assets/wiki.css assets/search.js assets/lightbox.js
var assetFS embed.FS

// assetFiles maps embedded asset names to their path under the output
// directory. Every emitted page references them through the base prefix, so
// the site keeps working when opened straight from the filesystem.
var assetFiles = []string{"wiki.css", "search.js", "lightbox.js"}

const assetDir = "assets"

var shellTmpl = template.Must(template.New("shell").Parse(`<!doctype html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.PageTitle}} &middot; {{.SiteTitle}}</title>
<link rel="stylesheet" href="{{.BasePrefix}}assets/wiki.css">
</head>
<body>
<header class="top-bar">
<a class="top-bar-brand" href="{{.BasePrefix}}{{.HomeHref}}">{{.SiteTitle}}</a>
<div class="top-bar-search">
<input id="wiki-search" type="search" placeholder="Search pages&hellip; ( / )" autocomplete="off">
<div id="wiki-search-results" class="search-results"></div>
</div>
</header>
<div class="layout">
<nav class="sidebar">
<ul>
{{.Sidebar}}
</ul>
</nav>
<div class="content">
<main class="page-body">
{{.Breadcrumbs}}
{{.Body}}
</main>
{{.TOC}}
</div>
</div>
<div id="mermaid-lightbox" class="mermaid-lightbox"></div>
<script>window.WIKI_SEARCH_INDEX = {{.SearchIndexJSON}};
window.WIKI_BASE_PREFIX = "{{.BasePrefix}}";</script>
<script src="{{.BasePrefix}}assets/search.js"></script>
<script src="{{.BasePrefix}}assets/lightbox.js"></script>
{{if .HasDiagrams}}<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs";
mermaid.initialize({startOnLoad: true, securityLevel: "loose"});
</script>
{{end}}</body>
</html>
`))

// shellData carries pre-rendered HTML fragments. The template is a plain
// text template, so every field is inserted verbatim and callers escape
// whatever needs escaping before filling it in.
type shellData struct {
	Lang            string
	PageTitle       string
	SiteTitle       string
	BasePrefix      string
	HomeHref        string
	Sidebar         string
	Breadcrumbs     string
	Body            string
	TOC             string
	SearchIndexJSON string
	HasDiagrams     bool
}

func renderShell(data shellData) (string, error) {
	data.PageTitle = html.EscapeString(data.PageTitle)
	data.SiteTitle = html.EscapeString(data.SiteTitle)

	var sb strings.Builder
	if err := shellTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
