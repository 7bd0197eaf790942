package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"net/url"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/bookmarker/pkg/config"
	"github.com/umputun/bookmarker/pkg/content"
	"github.com/umputun/bookmarker/pkg/domain"
	"github.com/umputun/bookmarker/pkg/history"
	"github.com/umputun/bookmarker/pkg/llm"
	"github.com/umputun/bookmarker/pkg/notify"
	"github.com/umputun/bookmarker/pkg/orchestrator"
	"github.com/umputun/bookmarker/pkg/placement"
	"github.com/umputun/bookmarker/pkg/repository"
	"github.com/umputun/bookmarker/pkg/settings"
	"github.com/umputun/bookmarker/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	SetupLog(opts.Debug)
	lgr.Printf("[INFO] starting bookmarker version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	lgr.Print("[INFO] shutdown complete")
}

// run wires all components and blocks until ctx is canceled or the server fails
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	settingsLoader := settings.NewLoader(repos.Setting)
	stored, err := settingsLoader.Load(ctx)
	if err != nil {
		lgr.Printf("[WARN] can't load stored settings: %v", err)
	}
	SetupLog(opts.Debug, logSecrets(cfg, stored)...)
	if msg := proxyWarning(cfg, stored); msg != "" {
		lgr.Printf("[WARN] %s", msg)
	}

	engine := placement.NewEngine(repos.Bookmark, cfg.Placement.ContainerID, cfg.Placement.SelfCreatedTTL)
	recorder := history.NewRecorder(repos.History, cfg.History.Limit)
	hub := notify.NewHub()

	orch := orchestrator.New(orchestrator.Params{
		Settings:   settingsLoader,
		Extractor:  content.NewExtractor(content.NewHTTPProbe(cfg.Extraction.UserAgent, cfg.Extraction.MaxPageSize), cfg.Extraction),
		Classifier: llm.NewClassifier(cfg.LLM),
		Placer:     engine,
		Recorder:   recorder,
		Notifier:   hub,
		Metrics:    orchestrator.NewMetrics(reg),
	})
	repos.Bookmark.OnCreated(orch.BookmarkCreated)

	maintenance := cron.New()
	if _, err := maintenance.AddFunc(cfg.Placement.CleanupSchedule, engine.DeleteExpired); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", cfg.Placement.CleanupSchedule, err)
	}

	srv := server.New(server.Params{
		Config:     cfg,
		Classifier: orch,
		Bookmarks:  repos.Bookmark,
		History:    recorder,
		Settings:   settingsLoader,
		Events:     hub,
		Metrics:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}, revision, opts.Debug)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		maintenance.Start()
		<-gctx.Done()
		<-maintenance.Stop().Done()
		lgr.Printf("[DEBUG] waiting for %d in-flight classifications", orch.InFlight())
		orch.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// logSecrets collects values lgr should mask, the stored api key and the proxy password
func logSecrets(cfg *config.Config, s domain.Settings) []string {
	var res []string
	if key := strings.TrimSpace(s.Provider.APIKey); key != "" {
		res = append(res, key)
	}
	if u, err := url.Parse(cfg.LLM.Endpoints.Proxy); err == nil && u.User != nil {
		if pass, ok := u.User.Password(); ok && pass != "" {
			res = append(res, pass)
		}
	}
	return res
}

// proxyWarning reports a default provider selection that can't work without llm.endpoints.proxy
func proxyWarning(cfg *config.Config, s domain.Settings) string {
	if s.Provider.ID != "" && s.Provider.ID != domain.ProviderDefault {
		return ""
	}
	if strings.TrimSpace(cfg.LLM.Endpoints.Proxy) != "" {
		return ""
	}
	return "default provider is selected but llm.endpoints.proxy is not set, every classification will fall back to the default folder"
}

// SetupLog configures lgr, secrets are masked in the output
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
