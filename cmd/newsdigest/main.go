package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	log "github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newsdigest/pkg/config"
	"github.com/umputun/newsdigest/pkg/content"
	"github.com/umputun/newsdigest/pkg/digest"
	"github.com/umputun/newsdigest/pkg/feed"
	"github.com/umputun/newsdigest/pkg/llm"
	"github.com/umputun/newsdigest/pkg/notify"
	"github.com/umputun/newsdigest/pkg/repository"
	"github.com/umputun/newsdigest/pkg/scheduler"
	"github.com/umputun/newsdigest/server"
)

// Opts with all CLI options
type Opts struct {
	Config      string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	MarkAllSent bool   `long:"mark-all-sent" description:"mark all unsent items as sent and exit"`

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
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
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

	log.Printf("[INFO] starting newsdigest version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires all components and blocks until ctx is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	SetupLog(opts.Debug, cfg.Secrets()...)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		InitRetries:     cfg.Database.InitRetries,
	})
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	if opts.MarkAllSent {
		n, err := repos.Item.MarkAllUnsentAsSent(ctx)
		if err != nil {
			return fmt.Errorf("failed to mark items as sent: %w", err)
		}
		log.Printf("[INFO] %d items marked as sent", n)
		return nil
	}

	dispatchInterval, err := cfg.DispatchInterval()
	if err != nil {
		return fmt.Errorf("invalid dispatch frequency: %w", err)
	}

	sched := scheduler.NewScheduler(scheduler.Params{
		Ingester:         newIngester(cfg, repos),
		Dispatcher:       newDispatcher(ctx, cfg, repos),
		IngestInterval:   cfg.Schedule.IngestInterval,
		DispatchInterval: dispatchInterval,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sched.Start(gctx)
		<-gctx.Done()
		sched.Stop()
		return nil
	})

	if cfg.Server.Listen != "" {
		srv := server.New(server.NewConfigAdapter(cfg), server.NewRepositoryAdapter(repos), sched, revision, opts.Debug)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

func newIngester(cfg *config.Config, repos *repository.Repositories) *scheduler.Ingester {
	sources := make([]feed.Source, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		sources = append(sources, feed.Source{URL: f.URL, Name: f.Name})
	}

	params := scheduler.IngesterParams{
		Store:        repos.Item,
		Validator:    feed.NewValidator(feed.NewParser(cfg.Validation.Timeout, cfg.Validation.UserAgent), cfg.Validation.MaxRetries),
		Sources:      sources,
		KeywordsFile: cfg.KeywordsFile,
		Threshold:    cfg.Threshold(),
	}
	if cfg.Extraction.Enabled {
		params.Extractor = content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent, cfg.Extraction.MaxAbstract)
		log.Printf("[INFO] abstract extraction enabled")
	}
	return scheduler.NewIngester(params)
}

func newDispatcher(ctx context.Context, cfg *config.Config, repos *repository.Repositories) *scheduler.Dispatcher {
	labels := make([]digest.SourceLabel, 0, len(cfg.Dispatch.Sources))
	for _, s := range cfg.Dispatch.Sources {
		labels = append(labels, digest.SourceLabel{Substring: s.Match, Label: s.Label})
	}

	params := scheduler.DispatcherParams{
		Store:       repos.Item,
		Topics:      digest.NewKeywordTopics(),
		Sources:     labels,
		BatchSize:   cfg.Dispatch.BatchSize,
		BatchPause:  cfg.Dispatch.BatchPause,
		SendTimeout: cfg.Notify.Timeout,
	}
	if cfg.Dispatch.NoTopics {
		params.Topics = digest.NoTopics{}
	}

	dests := notify.ParseDestinations(cfg.Notify.Destinations, notify.Options{Timeout: cfg.Notify.Timeout})
	if len(dests) == 0 {
		log.Printf("[WARN] no notification destinations configured, items will be stored but not sent")
	} else {
		multi := notify.NewMulti(cfg.Notify.Retries, cfg.Notify.Backoff, dests...)
		params.Notifier = multi
		log.Printf("[INFO] %d notification destinations configured", multi.Len())
		if cfg.Notify.TestOnStart {
			sendTestMessage(ctx, multi, cfg.Notify.Timeout)
		}
	}

	if cfg.RewriteEnabled() {
		params.Rewriter = llm.NewRewriter(cfg.LLM)
		log.Printf("[INFO] digest rewriting enabled with model %s", cfg.LLM.Model)
	}
	return scheduler.NewDispatcher(params)
}

// sendTestMessage checks delivery configuration at startup, failure is only logged
func sendTestMessage(ctx context.Context, n notify.Notifier, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	body := fmt.Sprintf("This is a configuration test sent at %s. Digests will arrive here.", time.Now().UTC().Format(time.RFC3339))
	if err := n.Send(ctx, "newsdigest configuration test", body); err != nil {
		log.Printf("[WARN] test notification failed: %v", err)
		return
	}
	log.Printf("[INFO] test notification sent")
}

// SetupLog configures lgr and the standard logger, secrets are masked in the output
func SetupLog(dbg bool, secs ...string) {
	logOpts := []log.Option{log.Msec, log.LevelBraces}
	if dbg {
		logOpts = []log.Option{log.Debug, log.CallerFile, log.CallerFunc, log.Msec, log.LevelBraces, log.StackTraceOnError}
	}

	colorizer := log.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, log.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, log.Secret(secs...))
	}
	log.SetupStdLogger(logOpts...)
	log.Setup(logOpts...)
}
