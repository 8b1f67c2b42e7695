package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

const (
	EnvPrefix = "ORACLE_PLUS"
	FileName  = ".oracle-plus"
)

// envAliases binds config keys to the variable names used by existing
// deployments. The prefixed name is always tried first.
var envAliases = map[string][]string{
	"database.url":            {"ORACLE_PLUS_DATABASE_URL", "SUPABASE_DB_URL", "DATABASE_URL"},
	"database.tenant_id":      {"ORACLE_PLUS_DATABASE_TENANT_ID", "ORACLE_PLUS_TENANT_ID"},
	"model.gemini_api_key":    {"ORACLE_PLUS_MODEL_GEMINI_API_KEY", "GEMINI_API_KEY"},
	"model.anthropic_api_key": {"ORACLE_PLUS_MODEL_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
	"embeddings.api_key":      {"ORACLE_PLUS_EMBEDDINGS_API_KEY", "OPENAI_API_KEY"},
}

// NewViper returns a viper instance with defaults and environment bindings
// registered. Every key must have a default for env overrides to reach
// Unmarshal.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())
	for key, names := range envAliases {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("settings.log_level", string(d.Settings.LogLevel))
	v.SetDefault("settings.log_format", string(d.Settings.LogFormat))
	v.SetDefault("settings.concurrency", d.Settings.Concurrency)
	v.SetDefault("settings.triggered_by", d.Settings.TriggeredBy)
	v.SetDefault("settings.entity_types", d.Settings.EntityTypes)
	v.SetDefault("settings.report_limit", d.Settings.ReportLimit)
	v.SetDefault("settings.usage_buffer", d.Settings.UsageBuffer)

	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.max_conns", d.Database.MaxConns)
	v.SetDefault("database.connect_timeout", d.Database.ConnectTimeout)
	v.SetDefault("database.schema", d.Database.Schema)
	v.SetDefault("database.tenant_id", d.Database.TenantID)

	v.SetDefault("model.provider", d.Model.Provider)
	v.SetDefault("model.name", d.Model.Name)
	v.SetDefault("model.base_url", d.Model.BaseURL)
	v.SetDefault("model.gemini_api_key", d.Model.GeminiAPIKey)
	v.SetDefault("model.anthropic_api_key", d.Model.AnthropicAPIKey)
	v.SetDefault("model.requests_per_second", d.Model.RequestsPerSecond)
	v.SetDefault("model.timeout", d.Model.Timeout)
	v.SetDefault("model.max_tokens", d.Model.MaxTokens)
	v.SetDefault("model.max_retries", d.Model.MaxRetries)

	v.SetDefault("embeddings.api_key", d.Embeddings.APIKey)
	v.SetDefault("embeddings.model", d.Embeddings.Model)
	v.SetDefault("embeddings.base_url", d.Embeddings.BaseURL)

	v.SetDefault("aws.region", d.AWS.Region)
	v.SetDefault("aws.profile", d.AWS.Profile)

	v.SetDefault("console.no_color", d.Console.NoColor)
}

// ReadFile loads cfgFile, or .oracle-plus.yaml from the working directory
// and then the home directory. A missing default file is not an error; the
// returned path is empty in that case.
func ReadFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", apperrors.WrapUserFacing(err, apperrors.CodeConfigReadError, "failed to read config file",
			"Check that the file exists and is valid YAML.")
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes and validates the configuration held by v.
func Load(ctx context.Context, v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, apperrors.WrapUserFacing(err, apperrors.CodeConfigParseError, "failed to parse configuration",
			"Check value types in the config file and environment.")
	}
	if err := Validate(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Validate(ctx context.Context, cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.StructCtx(ctx, cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.Wrap(err, apperrors.CodeConfigValidation, "configuration validation failed")
	}
	var details strings.Builder
	details.WriteString("Configuration validation failed:")
	for _, fe := range validationErrors {
		fmt.Fprintf(&details, "\n - Field '%s': Failed on '%s' validation", fe.Namespace(), fe.Tag())
		if !secretField(fe.Field()) {
			fmt.Fprintf(&details, " (value: '%v')", fe.Value())
		}
	}
	return apperrors.NewUserFacing(apperrors.CodeConfigValidation, details.String(),
		"Please check your configuration file, environment or flags.")
}

func secretField(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "key") || n == "url"
}
