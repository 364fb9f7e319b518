// Package site turns a tree of Markdown sources into a self-contained static
// HTML wiki: one output document per source document, shared assets, and a
// root redirect pointing at the first page.
package site

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/wikibuilder/internal/config"
	"git.home.luguber.info/inful/wikibuilder/internal/discovery"
	"git.home.luguber.info/inful/wikibuilder/internal/logfields"
	"git.home.luguber.info/inful/wikibuilder/internal/markdown"
	"git.home.luguber.info/inful/wikibuilder/internal/metrics"
	"git.home.luguber.info/inful/wikibuilder/internal/nav"
	"git.home.luguber.info/inful/wikibuilder/internal/search"
	"git.home.luguber.info/inful/wikibuilder/internal/wiki"
)

const (
	// DefaultTitle is used when neither the flags nor the config name the site.
	DefaultTitle = "Codebase Wiki"

	// DefaultLang is the document language when nothing else is configured.
	DefaultLang = "en"

	defaultConcurrency = 8
)

// Options configures a single site build.
type Options struct {
	InputDir  string
	OutputDir string

	// Title and Lang are the resolved site title and document language.
	// Empty values fall back to the package defaults.
	Title string
	Lang  string

	// Config is the optional wiki config controlling page order and
	// sections. Nil means pure filesystem discovery.
	Config *config.Config

	// Concurrency caps how many pages render at once. Zero means the
	// package default.
	Concurrency int

	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Report summarizes a completed build.
type Report struct {
	BuildID   string
	Pages     int
	OutputDir string
	Duration  time.Duration
}

// Generator renders a wiki site from Markdown sources. A Generator is
// stateless between builds and safe to reuse, which is what the preview
// server does on every rebuild.
type Generator struct {
	opts     Options
	recorder metrics.Recorder
	logger   *slog.Logger
}

func NewGenerator(opts Options) *Generator {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Lang == "" {
		opts.Lang = DefaultLang
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{opts: opts, recorder: rec, logger: logger}
}

// Build discovers all pages under the input directory and renders the full
// site into the output directory. The output is a pure function of the
// sources and options: rebuilding without changes reproduces the site
// byte for byte.
func (g *Generator) Build(ctx context.Context) (*Report, error) {
	buildID := uuid.NewString()
	start := time.Now()
	logger := g.logger.With(logfields.BuildID(buildID))

	report, err := g.build(ctx, logger)
	duration := time.Since(start)
	g.recorder.ObserveBuildDuration(duration)
	if err != nil {
		g.recorder.IncBuildResult(metrics.ResultFailure)
		logger.Error("build failed", logfields.Error(err), logfields.DurationMS(float64(duration.Milliseconds())))
		return nil, err
	}
	report.BuildID = buildID
	report.Duration = duration
	g.recorder.IncBuildResult(metrics.ResultSuccess)
	logger.Info("build complete",
		logfields.Count(report.Pages),
		logfields.Output(report.OutputDir),
		logfields.DurationMS(float64(duration.Milliseconds())))
	return report, nil
}

func (g *Generator) build(ctx context.Context, logger *slog.Logger) (*Report, error) {
	pages, sections, err := discovery.New(g.opts.InputDir, g.opts.Config).Discover()
	if err != nil {
		return nil, err
	}
	g.recorder.SetPagesDiscovered(len(pages))
	logger.Debug("pages discovered", logfields.Count(len(pages)), logfields.Path(g.opts.InputDir))

	index, err := search.Build(g.opts.InputDir, pages)
	if err != nil {
		return nil, err
	}
	indexJSON, err := index.JSON()
	if err != nil {
		return nil, fmt.Errorf("%w: encode search index: %w", ErrSiteWrite, err)
	}

	if err := g.writeAssets(); err != nil {
		return nil, err
	}

	navb := nav.NewBuilder(pages, sections)
	homeHref := pages[0].OutputPath

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)
	for _, page := range pages {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pageStart := time.Now()
			if err := g.renderPage(page, navb, homeHref, indexJSON); err != nil {
				return err
			}
			g.recorder.ObservePageRenderDuration(time.Since(pageStart))
			logger.Debug("page rendered",
				logfields.Page(page.SourcePath),
				logfields.Slug(page.Slug),
				logfields.Output(page.OutputPath))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := g.writeRedirect(homeHref); err != nil {
		return nil, err
	}

	return &Report{Pages: len(pages), OutputDir: g.opts.OutputDir}, nil
}

func (g *Generator) renderPage(page wiki.Page, navb *nav.Builder, homeHref, indexJSON string) error {
	raw, err := os.ReadFile(filepath.Join(g.opts.InputDir, filepath.FromSlash(page.SourcePath)))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPageRender, page.SourcePath, err)
	}
	content := string(raw)

	body := markdown.ToHTML(content)
	doc, err := renderShell(shellData{
		Lang:            g.opts.Lang,
		PageTitle:       page.Title,
		SiteTitle:       g.opts.Title,
		BasePrefix:      nav.BasePrefix(page.OutputPath),
		HomeHref:        homeHref,
		Sidebar:         navb.Sidebar(page.Slug, page.OutputPath),
		Breadcrumbs:     navb.Breadcrumbs(page),
		Body:            body,
		TOC:             renderTOC(markdown.ExtractTOC(content)),
		SearchIndexJSON: indexJSON,
		HasDiagrams:     strings.Contains(body, `<div class="mermaid">`),
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPageRender, page.SourcePath, err)
	}

	outPath := filepath.Join(g.opts.OutputDir, filepath.FromSlash(page.OutputPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrSiteWrite, err)
	}
	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSiteWrite, page.OutputPath, err)
	}
	return nil
}

func (g *Generator) writeAssets() error {
	dir := filepath.Join(g.opts.OutputDir, assetDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrSiteWrite, err)
	}
	for _, name := range assetFiles {
		data, err := assetFS.ReadFile(assetDir + "/" + name)
		if err != nil {
			return fmt.Errorf("%w: embedded asset %s: %w", ErrSiteWrite, name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("%w: asset %s: %w", ErrSiteWrite, name, err)
		}
	}
	return nil
}

const redirectStub = `<!doctype html>
<html lang="%s">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="0; url=%s">
<title>%s</title>
</head>
<body>
<p>Redirecting to <a href="%s">%s</a>.</p>
</body>
</html>
`

// writeRedirect drops a root index.html forwarding to the first page. When
// the first page already is the root index.html, the stub would overwrite it
// with a redirect to itself, so it is skipped.
func (g *Generator) writeRedirect(homeHref string) error {
	if homeHref == "index"+wiki.OutputExtension {
		return nil
	}
	title := html.EscapeString(g.opts.Title)
	doc := fmt.Sprintf(redirectStub, g.opts.Lang, homeHref, title, homeHref, title)
	target := filepath.Join(g.opts.OutputDir, "index"+wiki.OutputExtension)
	if err := os.WriteFile(target, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("%w: redirect stub: %w", ErrSiteWrite, err)
	}
	return nil
}
