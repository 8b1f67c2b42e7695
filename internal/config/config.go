package config

import (
	"time"

	"github.com/olusolaa/oracle-plus/internal/adapters/sink/s3"
	"github.com/olusolaa/oracle-plus/internal/adapters/store/postgres"
	"github.com/olusolaa/oracle-plus/internal/log"
	"github.com/olusolaa/oracle-plus/internal/reporting/console"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Settings   SettingsConfig   `mapstructure:"settings"`
	Database   postgres.Config  `mapstructure:"database"`
	Model      ModelConfig      `mapstructure:"model"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings"`
	AWS        s3.Config        `mapstructure:"aws"`
	Console    console.Config   `mapstructure:"console"`
}

type SettingsConfig struct {
	LogLevel    log.Level  `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat   log.Format `mapstructure:"log_format" validate:"omitempty,oneof=text json"`
	Concurrency int        `mapstructure:"concurrency" validate:"min=1,max=32"`
	TriggeredBy string     `mapstructure:"triggered_by" validate:"required"`
	EntityTypes []string   `mapstructure:"entity_types" validate:"dive,oneof=table function code"`
	ReportLimit int        `mapstructure:"report_limit" validate:"min=1,max=10000"`
	// UsageBuffer bounds the number of usage events queued for the meter.
	UsageBuffer int `mapstructure:"usage_buffer" validate:"min=1"`
}

// ModelConfig selects the generative provider. API keys are checked when the
// model is first built so commands that never call it run without one.
type ModelConfig struct {
	Provider          string        `mapstructure:"provider" validate:"required,oneof=gemini anthropic"`
	Name              string        `mapstructure:"name"`
	BaseURL           string        `mapstructure:"base_url" validate:"omitempty,url"`
	GeminiAPIKey      string        `mapstructure:"gemini_api_key"`
	AnthropicAPIKey   string        `mapstructure:"anthropic_api_key"`
	RequestsPerSecond int           `mapstructure:"requests_per_second" validate:"min=1,max=100"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"min=1s"`
	MaxTokens         int           `mapstructure:"max_tokens" validate:"min=1"`
	MaxRetries        int           `mapstructure:"max_retries" validate:"min=0,max=10"`
}

type EmbeddingsConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:    log.LevelInfo,
			LogFormat:   log.FormatText,
			Concurrency: 1,
			TriggeredBy: "cli",
			EntityTypes: []string{},
			ReportLimit: 100,
			UsageBuffer: 256,
		},
		Database: postgres.Config{
			MaxConns:       4,
			ConnectTimeout: 10 * time.Second,
			Schema:         "public",
		},
		Model: ModelConfig{
			Provider:          ProviderGemini,
			RequestsPerSecond: 5,
			Timeout:           60 * time.Second,
			MaxTokens:         4096,
			MaxRetries:        2,
		},
		Embeddings: EmbeddingsConfig{
			Model: "text-embedding-3-small",
		},
	}
}

// APIKey returns the key for the selected provider.
func (m ModelConfig) APIKey() string {
	if m.Provider == ProviderAnthropic {
		return m.AnthropicAPIKey
	}
	return m.GeminiAPIKey
}
