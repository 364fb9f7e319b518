package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/wikibuilder/internal/config"
	"git.home.luguber.info/inful/wikibuilder/internal/linkverify"
	"git.home.luguber.info/inful/wikibuilder/internal/logfields"
	"git.home.luguber.info/inful/wikibuilder/internal/metrics"
	"git.home.luguber.info/inful/wikibuilder/internal/preview"
	"git.home.luguber.info/inful/wikibuilder/internal/site"
	"git.home.luguber.info/inful/wikibuilder/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path (wiki.json or wiki.yaml). Auto-discovered in the input directory when omitted"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Input       string `short:"i" help:"Directory containing Markdown sources" default:"wiki"`
		Output      string `short:"o" help:"Output directory for the generated site (default <input>/html)"`
		Title       string `help:"Site title, overrides the configured one"`
		Lang        string `help:"Document language code, overrides the configured one"`
		VerifyLinks bool   `help:"Verify internal links after the build"`
	} `cmd:"" help:"Build the static wiki site from Markdown sources"`

	Serve struct {
		Input   string `short:"i" help:"Directory containing Markdown sources" default:"wiki"`
		Output  string `short:"o" help:"Output directory for the generated site (default <input>/html)"`
		Title   string `help:"Site title, overrides the configured one"`
		Lang    string `help:"Document language code, overrides the configured one"`
		Addr    string `help:"Listen address" default:":8080"`
		Metrics bool   `help:"Expose Prometheus metrics at /metrics"`
	} `cmd:"" help:"Serve the wiki locally and rebuild on source changes"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "build":
		err = runBuild()
	case "serve":
		err = runServe()
	case "version":
		fmt.Printf("wikibuilder %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
	if err != nil {
		slog.Error("command failed", logfields.Error(err))
		os.Exit(1)
	}
}

// loadConfig resolves the wiki config. A missing config file is never fatal,
// even when the path was given explicitly: the build warns and falls back to
// filesystem order. Malformed config is always fatal.
func loadConfig(inputDir string) (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.Discover(inputDir)
		if path == "" {
			slog.Debug("no config file found, using filesystem order", logfields.Path(inputDir))
			return nil, nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			slog.Warn("config file not found, continuing without config", logfields.Config(path))
			return nil, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	slog.Info("config loaded", logfields.Config(path))
	return cfg, nil
}

// siteMeta applies the title and lang precedence: flag beats config beats
// the built-in defaults.
func siteMeta(flagTitle, flagLang string, cfg *config.Config) (title, lang string) {
	title, lang = flagTitle, flagLang
	if cfg != nil {
		if title == "" {
			title = cfg.Title
		}
		if lang == "" {
			lang = cfg.Lang
		}
	}
	return title, lang
}

func outputDir(input, output string) string {
	if output != "" {
		return output
	}
	return filepath.Join(input, "html")
}

func runBuild() error {
	cfg, err := loadConfig(CLI.Build.Input)
	if err != nil {
		return err
	}
	title, lang := siteMeta(CLI.Build.Title, CLI.Build.Lang, cfg)
	output := outputDir(CLI.Build.Input, CLI.Build.Output)

	gen := site.NewGenerator(site.Options{
		InputDir:  CLI.Build.Input,
		OutputDir: output,
		Title:     title,
		Lang:      lang,
		Config:    cfg,
	})
	if _, err := gen.Build(context.Background()); err != nil {
		return err
	}

	if CLI.Build.VerifyLinks {
		return verifyLinks(output)
	}
	return nil
}

func verifyLinks(siteDir string) error {
	issues, err := linkverify.Verify(siteDir)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		slog.Warn("broken link", logfields.Page(issue.Page), logfields.Path(issue.Target))
	}
	if len(issues) > 0 {
		return fmt.Errorf("link verification found %d broken links", len(issues))
	}
	slog.Info("link verification passed")
	return nil
}

func runServe() error {
	cfg, err := loadConfig(CLI.Serve.Input)
	if err != nil {
		return err
	}
	title, lang := siteMeta(CLI.Serve.Title, CLI.Serve.Lang, cfg)
	output := outputDir(CLI.Serve.Input, CLI.Serve.Output)

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	opts := preview.Options{
		Addr:     CLI.Serve.Addr,
		SiteDir:  output,
		WatchDir: CLI.Serve.Input,
	}
	if CLI.Serve.Metrics {
		prom := metrics.NewPrometheusRecorder(nil)
		recorder = prom
		opts.MetricsHandler = prom.HTTPHandler()
	}
	opts.Recorder = recorder
	opts.Generator = site.NewGenerator(site.Options{
		InputDir:  CLI.Serve.Input,
		OutputDir: output,
		Title:     title,
		Lang:      lang,
		Config:    cfg,
		Recorder:  recorder,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := preview.Serve(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
