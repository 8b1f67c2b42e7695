package app

import (
	"context"
	"sync"
	"time"

	"github.com/olusolaa/oracle-plus/internal/adapters/model/anthropic"
	"github.com/olusolaa/oracle-plus/internal/adapters/model/gemini"
	"github.com/olusolaa/oracle-plus/internal/adapters/model/openai"
	"github.com/olusolaa/oracle-plus/internal/config"
	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	"github.com/olusolaa/oracle-plus/internal/core/service"
	"github.com/olusolaa/oracle-plus/internal/errors"
	"github.com/olusolaa/oracle-plus/internal/structured"
)

const shutdownTimeout = 5 * time.Second

type Checker interface {
	Run(ctx context.Context, req service.CheckRequest) (service.CheckReport, error)
}

type HistoryReader interface {
	ListRecentValidations(ctx context.Context, limit int) ([]domain.ValidationRecord, error)
}

type SpecIndexer interface {
	IndexOne(ctx context.Context, specID string) (int, error)
	IndexAll(ctx context.Context) (service.IndexSummary, error)
}

type TestGenerator interface {
	Generate(ctx context.Context, specID string, framework service.Framework, testType service.TestType) (service.GeneratedTest, error)
}

// Services is what the command layer needs from a bootstrapped application.
type Services interface {
	Config() *config.Config
	Logger() ports.Logger
	Checker(ctx context.Context) (Checker, error)
	History(ctx context.Context) (HistoryReader, error)
	Indexer(ctx context.Context) (SpecIndexer, error)
	TestGenerator(ctx context.Context) (TestGenerator, error)
	Sink() ports.Sink
	Close() error
}

// store is the union of persistence ports backed by one database.
type store interface {
	ports.SpecificationStore
	ports.ValidationStore
	ports.SchemaInspector
	ports.UsageConsumer
}

type meter interface {
	ports.UsageMeter
	Close(ctx context.Context) error
}

// Application holds the dependencies shared by every command. Components
// that need a model API key are built on first use.
type Application struct {
	cfg      *config.Config
	logger   ports.Logger
	store    store
	registry *service.FetcherRegistry
	limiter  ports.RateLimiter
	meter    meter
	sink     ports.Sink
	closeDB  func()

	newModel    func(cfg config.ModelConfig, logger ports.Logger) (ports.Model, error)
	newEmbedder func(cfg config.EmbeddingsConfig, maxRetries int, logger ports.Logger) (ports.Embedder, error)

	modelOnce sync.Once
	model     ports.Model
	modelErr  error
}

func (a *Application) Config() *config.Config { return a.cfg }
func (a *Application) Logger() ports.Logger   { return a.logger }
func (a *Application) Sink() ports.Sink       { return a.sink }

func (a *Application) History(ctx context.Context) (HistoryReader, error) {
	return a.store, nil
}

func (a *Application) Checker(ctx context.Context) (Checker, error) {
	model, err := a.generativeModel(ctx)
	if err != nil {
		return nil, err
	}
	analyzer := service.NewDriftAnalyzer(model, a.limiter, a.meter, structured.NewParser(),
		a.logger.WithFields(map[string]any{"component": "analyzer"}), a.analyzerOptions())
	recorder := service.NewValidationRecorder(a.store, a.logger.WithFields(map[string]any{"component": "recorder"}))

	engine, err := service.NewCheckEngine(a.store, a.registry, analyzer, recorder,
		a.logger.WithFields(map[string]any{"component": "engine"}), a.cfg.Settings.Concurrency)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize check engine")
	}
	return engine, nil
}

func (a *Application) Indexer(ctx context.Context) (SpecIndexer, error) {
	embedder, err := a.newEmbedder(a.cfg.Embeddings, a.cfg.Model.MaxRetries, a.logger.WithFields(map[string]any{"component": "embedder"}))
	if err != nil {
		return nil, err
	}
	return service.NewIndexer(a.store, embedder, a.logger.WithFields(map[string]any{"component": "indexer"})), nil
}

func (a *Application) TestGenerator(ctx context.Context) (TestGenerator, error) {
	model, err := a.generativeModel(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewTestGenerator(a.store, model, a.limiter, a.meter,
		a.logger.WithFields(map[string]any{"component": "testgen"}), a.analyzerOptions()), nil
}

// Close drains pending usage events and releases the database pool.
func (a *Application) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error
	if a.meter != nil {
		if err = a.meter.Close(ctx); err != nil {
			a.logger.Warnf(ctx, "Usage meter shutdown: %v", err)
		}
	}
	if a.closeDB != nil {
		a.closeDB()
	}
	return err
}

func (a *Application) analyzerOptions() service.AnalyzerOptions {
	return service.AnalyzerOptions{Timeout: a.cfg.Model.Timeout, MaxTokens: a.cfg.Model.MaxTokens}
}

func (a *Application) generativeModel(ctx context.Context) (ports.Model, error) {
	a.modelOnce.Do(func() {
		a.model, a.modelErr = a.newModel(a.cfg.Model, a.logger.WithFields(map[string]any{"component": "model"}))
		if a.modelErr == nil {
			a.logger.Infof(ctx, "Using model %s", a.model.Name())
		}
	})
	return a.model, a.modelErr
}

// NewModel builds the configured generative provider.
func NewModel(cfg config.ModelConfig, logger ports.Logger) (ports.Model, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		client, err := gemini.New(gemini.Config{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.Name,
			BaseURL:    cfg.BaseURL,
			MaxRetries: cfg.MaxRetries,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderAnthropic:
		client, err := anthropic.New(anthropic.Config{
			APIKey:     cfg.AnthropicAPIKey,
			Model:      cfg.Name,
			BaseURL:    cfg.BaseURL,
			MaxRetries: cfg.MaxRetries,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, "unsupported model provider: "+cfg.Provider,
			"Supported: gemini, anthropic")
	}
}

func NewEmbedder(cfg config.EmbeddingsConfig, maxRetries int, logger ports.Logger) (ports.Embedder, error) {
	embedder, err := openai.NewEmbedder(openai.Config{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		MaxRetries: maxRetries,
	}, logger)
	if err != nil {
		return nil, err
	}
	return embedder, nil
}
