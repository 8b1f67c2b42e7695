package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/olusolaa/oracle-plus/internal/adapters/model/limiter"
	"github.com/olusolaa/oracle-plus/internal/adapters/sink"
	"github.com/olusolaa/oracle-plus/internal/adapters/sink/file"
	"github.com/olusolaa/oracle-plus/internal/adapters/sink/s3"
	"github.com/olusolaa/oracle-plus/internal/adapters/store/postgres"
	"github.com/olusolaa/oracle-plus/internal/config"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	"github.com/olusolaa/oracle-plus/internal/core/service"
	"github.com/olusolaa/oracle-plus/internal/errors"
	"github.com/olusolaa/oracle-plus/internal/log"
	"github.com/olusolaa/oracle-plus/internal/usage"
)

type Options struct {
	ConfigFile string
	Overrides  Overrides
	// LogOutput defaults to stderr.
	LogOutput io.Writer
}

// Bootstrap loads configuration, opens the database and wires the shared
// components. The returned application must be closed.
func Bootstrap(ctx context.Context, opts Options) (*Application, error) {
	v := config.NewViper()
	used, err := config.ReadFile(v, opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	opts.Overrides.apply(v)

	cfg, err := config.Load(ctx, v)
	if err != nil {
		return nil, err
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger, err := log.NewLoggerTo(log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat}, out)
	if err != nil {
		fmt.Fprintf(out, "FATAL: Failed to initialize logger: %v\n", err)
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Debugf(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if used != "" {
		logger.Debugf(ctx, "Using configuration file: %s", used)
	} else {
		logger.Debugf(ctx, "No configuration file found, using defaults/env/flags.")
	}

	pool, err := postgres.Connect(ctx, cfg.Database, logger.WithFields(map[string]any{"component": "database"}))
	if err != nil {
		return nil, err
	}

	a, err := newApplication(ctx, cfg, logger, pool, pool.Close)
	if err != nil {
		pool.Close()
		return nil, err
	}
	logger.Debugf(ctx, "Application bootstrap complete")
	return a, nil
}

// newApplication wires everything on top of an open database handle.
func newApplication(ctx context.Context, cfg *config.Config, logger ports.Logger, db postgres.DB, closeDB func()) (*Application, error) {
	st, err := postgres.NewStore(db, cfg.Database, logger.WithFields(map[string]any{"component": "store"}))
	if err != nil {
		return nil, err
	}

	registry := service.NewFetcherRegistry()
	fetchers := []ports.StateFetcher{
		service.NewTableFetcher(st, logger.WithFields(map[string]any{"component": "fetcher", "kind": "table"})),
		service.FunctionFetcher{},
		service.CodeFetcher{},
	}
	for _, f := range fetchers {
		if err := registry.Register(f); err != nil {
			return nil, err
		}
	}
	if err := registry.Verify(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "fetcher registry is incomplete")
	}

	lim := limiter.New(cfg.Model.RequestsPerSecond, logger.WithFields(map[string]any{"component": "limiter"}))
	logger.Debugf(ctx, "Model rate limit: %d req/s", lim.RPS())

	m := usage.NewMeter(st, logger.WithFields(map[string]any{"component": "usage"}), usage.Options{Buffer: cfg.Settings.UsageBuffer})

	sinkLogger := logger.WithFields(map[string]any{"component": "sink"})
	router := sink.NewRouter(file.NewSink(sinkLogger), func(ctx context.Context) (ports.Sink, error) {
		remote, err := s3.NewSink(ctx, cfg.AWS, sinkLogger)
		if err != nil {
			return nil, err
		}
		return remote, nil
	})

	return &Application{
		cfg:         cfg,
		logger:      logger,
		store:       st,
		registry:    registry,
		limiter:     lim,
		meter:       m,
		sink:        router,
		closeDB:     closeDB,
		newModel:    NewModel,
		newEmbedder: NewEmbedder,
	}, nil
}
