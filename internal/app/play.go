package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/tturner/nettrainer/internal/config"
	nettrainerErrors "github.com/tturner/nettrainer/internal/errors"
	"github.com/tturner/nettrainer/internal/logging"
	"github.com/tturner/nettrainer/internal/metrics"
	"github.com/tturner/nettrainer/internal/report"
	"github.com/tturner/nettrainer/internal/scenario"
	"github.com/tturner/nettrainer/internal/session"
	"github.com/tturner/nettrainer/internal/store"
	"github.com/tturner/nettrainer/internal/tui"
)

// PlayOptions are the command-line overrides for an interactive session.
type PlayOptions struct {
	ConfigPath       string
	AutoCreateConfig bool
	DataDir          string
	Scenario         string
	ReportURL        string
	ReportFile       string
	LogLevel         string
	Fresh            bool
}

// Environment is a session wired to its logger, store and metrics.
type Environment struct {
	Config  *config.Config
	Logger  *logging.Logger
	Session *session.Session
	Store   *store.Store
	Metrics *metrics.Collector

	server *metrics.Server
}

// LoadConfig reads the config file, or returns defaults when path is empty,
// and applies the command-line overrides.
func LoadConfig(opts PlayOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath, opts.AutoCreateConfig); err != nil {
			return nil, err
		}
	}

	if opts.Scenario != "" {
		if _, err := scenario.Parse(opts.Scenario); err != nil {
			return nil, err
		}
		cfg.Troubleshooter.Scenario = opts.Scenario
	}
	if opts.ReportURL != "" {
		cfg.Report.HostingURL = opts.ReportURL
	}
	if opts.ReportFile != "" {
		cfg.Report.OutputFile = opts.ReportFile
	}
	if opts.DataDir != "" {
		cfg.Storage.DataDir = opts.DataDir
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nettrainerErrors.WrapConfigError(err, opts.ConfigPath)
	}
	return cfg, nil
}

// Reporters builds the result delivery chain from the report section.
func Reporters(cfg *config.Config) report.Reporter {
	var chain report.MultiReporter
	if cfg.Report.HostingURL != "" {
		chain = append(chain, report.NewHTTPReporter(cfg.Report.HostingURL, cfg.ReportTimeout()))
	}
	if cfg.Report.OutputFile != "" {
		chain = append(chain, report.FileReporter{Path: cfg.Report.OutputFile})
	}
	if len(chain) == 0 {
		return report.Discard
	}
	return chain
}

// Setup builds a session from the configuration, restoring the saved
// cosmetic snapshot unless opts.Fresh is set.
func Setup(opts PlayOptions) (*Environment, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logger, err := logging.NewLogger(level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	rubric, err := cfg.Rubric.Build()
	if err != nil {
		logger.Close()
		return nil, nettrainerErrors.WrapConfigError(err, opts.ConfigPath)
	}

	env := &Environment{Config: cfg, Logger: logger}
	sessOpts := session.Options{
		Picker:          cfg.Picker(),
		FailProbability: cfg.FailProbability(),
		Rubric:          rubric,
		Reporter:        Reporters(cfg),
		Logger:          logger,
		Timing:          cfg.Timing.SessionTiming(),
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		collector, err := metrics.NewCollector(reg)
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("create metrics collector: %w", err)
		}
		env.Metrics = collector
		env.server = metrics.Serve(cfg.MetricsAddr(), collector)
		sessOpts.Metrics = collector
		logger.Info("Metrics listening on http://%s/metrics", cfg.MetricsAddr())
	}

	if !cfg.Storage.Disabled {
		env.Store = store.New(cfg.Storage.DataDir, logger)
		if opts.Fresh {
			if err := env.Store.Clear(); err != nil {
				env.Close(context.Background())
				return nil, nettrainerErrors.WrapStorageError(err, cfg.Storage.DataDir)
			}
		}
		sessOpts.Persister = env.Store
	}

	env.Session = session.New(sessOpts)
	if env.Store != nil && !opts.Fresh {
		if snap, ok := env.Store.Load(); ok {
			env.Session.Restore(snap)
			logger.Info("Restored desktop state from %s", env.Store.Path())
		}
	}

	logger.LogStartup(env.Session.ID(), cfg.Troubleshooter.Scenario, opts.ConfigPath, cfg.Storage.DataDir)
	return env, nil
}

// Close stops the metrics endpoint and flushes the log file.
func (e *Environment) Close(ctx context.Context) error {
	var err error
	if e.server != nil {
		err = e.server.Shutdown(ctx)
		e.server = nil
	}
	if cerr := e.Logger.Close(); err == nil {
		err = cerr
	}
	return err
}

// RunPlay runs the interactive desktop until the trainee quits.
func RunPlay(opts PlayOptions) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = env.Close(ctx)
	}()

	env.Logger.SetQuiet(true)

	var g errgroup.Group
	if env.server != nil {
		srv := env.server
		g.Go(func() error {
			for err := range srv.Err() {
				env.Logger.Error("metrics server: %v", err)
			}
			return nil
		})
	}

	var finished bool
	g.Go(func() error {
		defer func() {
			if srv := env.server; srv != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}
		}()
		r, ok, err := tui.Run(env.Session, env.Config.ReportTimeout())
		if err != nil {
			return fmt.Errorf("run desktop: %w", err)
		}
		finished = ok
		if ok {
			fmt.Fprintf(os.Stdout, "Score: %d/%d (%d/%d tasks)\n", r.Score, r.MaxScore, r.TasksCompleted, r.TotalTasks)
			fmt.Fprintln(os.Stdout, r.Summary)
		}
		return nil
	})
	err = g.Wait()
	env.Logger.SetQuiet(false)

	if err == nil && !finished && env.Store != nil {
		fmt.Fprintln(os.Stdout, "Desktop saved. Run nettrainer play again to continue.")
	}
	return err
}
