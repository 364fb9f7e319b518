package site

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSource(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func buildSite(t *testing.T, input string, opts Options) string {
	t.Helper()
	output := t.TempDir()
	opts.InputDir = input
	opts.OutputDir = output
	opts.Logger = discardLogger()
	_, err := NewGenerator(opts).Build(t.Context())
	require.NoError(t, err)
	return output
}

func readOutput(t *testing.T, output, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(output, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestBuildRendersTree(t *testing.T) {
	input := t.TempDir()
	writeSource(t, input, "index.md", "# Home\n\nWelcome to the wiki.\n")
	writeSource(t, input, "guides/setup.md", "# Setup Guide\n\n## Install\n\nRun the installer.\n")

	output := buildSite(t, input, Options{Title: "Demo Wiki"})

	home := readOutput(t, output, "index.html")
	assert.Contains(t, home, `<h1 id="home">Home</h1>`)
	assert.Contains(t, home, "Demo Wiki")
	assert.Contains(t, home, `<html lang="en">`)

	setup := readOutput(t, output, "guides/setup.html")
	assert.Contains(t, setup, `<h1 id="setup-guide">Setup Guide</h1>`)
	assert.Contains(t, setup, "On this page")
	assert.Contains(t, setup, `href="#install"`)

	// Nested pages reference shared assets through the base prefix.
	assert.Contains(t, setup, `href="../assets/wiki.css"`)
	assert.Contains(t, home, `href="assets/wiki.css"`)

	for _, asset := range []string{"wiki.css", "search.js", "lightbox.js"} {
		_, err := os.Stat(filepath.Join(output, "assets", asset))
		assert.NoError(t, err, asset)
	}
}

func TestBuildSidebarMarksActivePage(t *testing.T) {
	input := t.TempDir()
	writeSource(t, input, "alpha.md", "# Alpha\n")
	writeSource(t, input, "beta.md", "# Beta\n")

	output := buildSite(t, input, Options{})

	alpha := readOutput(t, output, "alpha.html")
	assert.Contains(t, alpha, `class="active">Alpha</a>`)
	assert.NotContains(t, alpha, `class="active">Beta</a>`)
}

func TestBuildRedirectStub(t *testing.T) {
	t.Run("written when first page is not the root index", func(t *testing.T) {
		input := t.TempDir()
		writeSource(t, input, "guides/setup.md", "# Setup\n")

		output := buildSite(t, input, Options{})

		stub := readOutput(t, output, "index.html")
		assert.Contains(t, stub, `url=guides/setup.html`)
		assert.Contains(t, stub, `http-equiv="refresh"`)
	})

	t.Run("skipped when the root index page exists", func(t *testing.T) {
		input := t.TempDir()
		writeSource(t, input, "index.md", "# Home\n\nReal content.\n")
		writeSource(t, input, "other.md", "# Other\n")

		output := buildSite(t, input, Options{})

		home := readOutput(t, output, "index.html")
		assert.Contains(t, home, "Real content.")
		assert.NotContains(t, home, `http-equiv="refresh"`)
	})
}

func TestBuildSearchIndexEmbedded(t *testing.T) {
	input := t.TempDir()
	writeSource(t, input, "api.md", "# API Reference\n\nEndpoints and payloads.\n")

	output := buildSite(t, input, Options{})

	page := readOutput(t, output, "api.html")
	assert.Contains(t, page, "window.WIKI_SEARCH_INDEX")
	assert.Contains(t, page, "Endpoints and payloads.")
	assert.Contains(t, page, `"url":"api.html"`)
}

func TestBuildMermaidScriptOnlyWhenNeeded(t *testing.T) {
	input := t.TempDir()
	writeSource(t, input, "plain.md", "# Plain\n\nNo diagrams here.\n")
	writeSource(t, input, "chart.md", "# Chart\n\n```mermaid\ngraph TD; A-->B;\n```\n")

	output := buildSite(t, input, Options{})

	assert.NotContains(t, readOutput(t, output, "plain.html"), "mermaid.esm.min.mjs")
	assert.Contains(t, readOutput(t, output, "chart.html"), "mermaid.esm.min.mjs")
}

func TestBuildTitleAndLangOptions(t *testing.T) {
	input := t.TempDir()
	writeSource(t, input, "index.md", "# Home\n")

	output := buildSite(t, input, Options{Title: "Mi Wiki", Lang: "es"})

	home := readOutput(t, output, "index.html")
	assert.Contains(t, home, `<html lang="es">`)
	assert.Contains(t, home, "Mi Wiki")
}

func TestBuildFailsOnEmptyTree(t *testing.T) {
	input := t.TempDir()
	gen := NewGenerator(Options{
		InputDir:  input,
		OutputDir: t.TempDir(),
		Logger:    discardLogger(),
	})
	_, err := gen.Build(t.Context())
	require.Error(t, err)
}

func TestBuildDeterministic(t *testing.T) {
	input := t.TempDir()
	writeSource(t, input, "index.md", "# Home\n\nStable output.\n")
	writeSource(t, input, "guides/setup.md", "# Setup\n\n## Steps\n\n1. one\n2. two\n")
	writeSource(t, input, "guides/usage.md", "# Usage\n\n| A | B |\n| - | - |\n| 1 | 2 |\n")

	first := buildSite(t, input, Options{Title: "Demo"})
	second := buildSite(t, input, Options{Title: "Demo"})

	err := filepath.WalkDir(first, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(first, path)
		require.NoError(t, err)
		want, err := os.ReadFile(path)
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(second, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, string(want), string(got), rel)
		return nil
	})
	require.NoError(t, err)
}

func TestBuildReport(t *testing.T) {
	input := t.TempDir()
	writeSource(t, input, "a.md", "# A\n")
	writeSource(t, input, "b.md", "# B\n")

	output := t.TempDir()
	report, err := NewGenerator(Options{
		InputDir:  input,
		OutputDir: output,
		Logger:    discardLogger(),
	}).Build(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, output, report.OutputDir)
	assert.NotEmpty(t, report.BuildID)
	assert.Positive(t, report.Duration)
}
