package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nbenliogludev/go-browser-crawler/internal/agent"
	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
	"github.com/nbenliogludev/go-browser-crawler/internal/config"
	"github.com/nbenliogludev/go-browser-crawler/internal/logging"
	"github.com/nbenliogludev/go-browser-crawler/internal/metrics"
)

const defaultConfigFile = "agent.yml"

// session is everything a live subcommand needs: config, run logger,
// metrics, an open browser page and the operator console. Console output
// is redacted like the log sinks.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc

	runID   string
	cfg     *config.Config
	log     *logging.Logger
	metrics *metrics.Recorder
	page    browser.Page
	out     io.Writer
	console *agent.Console
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(g *Globals) (*config.Config, error) {
	path, optional := g.Config, false
	if path == "" {
		path, optional = defaultConfigFile, true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, err
	}

	if g.Driver != "" {
		cfg.Browser.Driver = g.Driver
	}
	if g.Headless {
		cfg.Browser.Headless = true
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	if g.Metrics != "" {
		cfg.Metrics.Listen = g.Metrics
	}
	return cfg, nil
}

// openSession finishes configuration with apply, validates it and starts the browser.
func openSession(g *Globals, apply func(*config.Config)) (*session, error) {
	envErr := godotenv.Load()

	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	runID := uuid.New().String()
	secrets := append(cfg.Secrets(), cfg.Model.APIKey)
	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Dir:     cfg.Logging.Dir,
		RunID:   runID,
		Secrets: secrets,
		Console: os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Msgf("Starting run with ID: %s", runID)
	if logger.Path != "" {
		logger.Info().Msgf("Logs will be saved to %q", logger.Path)
	}
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("No .env file loaded, relying on the environment")
	}

	ctx, cancel := context.WithCancel(context.Background())
	rec := metrics.NewRecorder()
	if cfg.Metrics.Listen != "" {
		rec.Serve(ctx, cfg.Metrics.Listen, logger.Logger)
	}

	logger.Info().Str("driver", cfg.Browser.Driver).Bool("headless", cfg.Browser.Headless).Msg("starting browser")
	page, err := browser.Open(cfg.Browser.Driver, cfg.BrowserOptions())
	if err != nil {
		cancel()
		_ = logger.Close()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	out := logger.ConsoleWriter(os.Stdout)
	return &session{
		ctx:     ctx,
		cancel:  cancel,
		runID:   runID,
		cfg:     cfg,
		log:     logger,
		metrics: rec,
		page:    page,
		out:     out,
		console: agent.NewConsole(os.Stdin, out),
	}, nil
}

func (s *session) agentOptions() agent.Options {
	return agent.Options{
		Log:     s.log.Logger,
		Metrics: s.metrics,
		Out:     s.out,
		Console: s.console,
	}
}

func (s *session) Close() {
	if err := s.page.Close(); err != nil {
		s.log.Warn().Err(err).Msg("closing browser")
	}
	s.cancel()
	s.log.Info().Msg("Shutting down logger...")
	if err := s.log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error during log shutdown: %v\n", err)
	}
}
