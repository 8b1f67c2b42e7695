package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/oracle-plus/internal/config"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	portsmocks "github.com/olusolaa/oracle-plus/internal/core/ports/mocks"
	"github.com/olusolaa/oracle-plus/internal/errors"
	"github.com/olusolaa/oracle-plus/internal/log"
)

func newTestApplication(t *testing.T, cfg *config.Config) (*Application, *bool) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	closed := new(bool)
	a, err := newApplication(context.Background(), cfg, log.Nop(), pool, func() { *closed = true })
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, closed
}

func TestApplication_ModelIsBuiltOnceAndLazily(t *testing.T) {
	a, _ := newTestApplication(t, config.DefaultConfig())

	calls := 0
	model := new(portsmocks.Model)
	model.On("Name").Return("fake/model")
	a.newModel = func(config.ModelConfig, ports.Logger) (ports.Model, error) {
		calls++
		return model, nil
	}

	_, err := a.History(context.Background())
	require.NoError(t, err)
	assert.Zero(t, calls)

	checker, err := a.Checker(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, checker)

	gen, err := a.TestGenerator(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, gen)
	assert.Equal(t, 1, calls)
}

func TestApplication_ModelErrorsSurfaceFromCommands(t *testing.T) {
	cfg := config.DefaultConfig()
	a, _ := newTestApplication(t, cfg)

	_, err := a.Checker(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))
	msg, _, ok := errors.GetUserFacingMessage(err)
	assert.True(t, ok)
	assert.Contains(t, msg, "Gemini API key")

	_, err = a.TestGenerator(context.Background())
	assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))
}

func TestApplication_IndexerNeedsEmbeddingsKey(t *testing.T) {
	cfg := config.DefaultConfig()
	a, _ := newTestApplication(t, cfg)

	_, err := a.Indexer(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))

	cfg.Embeddings.APIKey = "o-key"
	idx, err := a.Indexer(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, idx)
}

func TestApplication_CloseReleasesDatabase(t *testing.T) {
	a, closed := newTestApplication(t, config.DefaultConfig())
	require.NoError(t, a.Close())
	assert.True(t, *closed)
}

func TestNewModel(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.ModelConfig
		wantName string
		wantCode errors.Code
	}{
		{
			name:     "gemini default model",
			cfg:      config.ModelConfig{Provider: config.ProviderGemini, GeminiAPIKey: "g"},
			wantName: "gemini/gemini-2.0-flash",
		},
		{
			name:     "anthropic custom model",
			cfg:      config.ModelConfig{Provider: config.ProviderAnthropic, AnthropicAPIKey: "a", Name: "claude-x"},
			wantName: "anthropic/claude-x",
		},
		{
			name:     "anthropic without key",
			cfg:      config.ModelConfig{Provider: config.ProviderAnthropic, GeminiAPIKey: "g"},
			wantCode: errors.CodeConfigValidation,
		},
		{
			name:     "unknown provider",
			cfg:      config.ModelConfig{Provider: "llama"},
			wantCode: errors.CodeConfigValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewModel(tt.cfg, log.Nop())
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Nil(t, m)
				assert.Equal(t, tt.wantCode, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, m.Name())
		})
	}
}

func TestOverridesApply(t *testing.T) {
	v := config.NewViper()
	Overrides{
		LogLevel:    " DEBUG ",
		LogFormat:   "json",
		NoColor:     true,
		Concurrency: 4,
		EntityTypes: []string{"Table, function", ""},
	}.apply(v)

	assert.Equal(t, "debug", v.GetString("settings.log_level"))
	assert.Equal(t, "json", v.GetString("settings.log_format"))
	assert.True(t, v.GetBool("console.no_color"))
	assert.Equal(t, 4, v.GetInt("settings.concurrency"))
	assert.Equal(t, []string{"table", "function"}, v.GetStringSlice("settings.entity_types"))

	untouched := config.NewViper()
	Overrides{}.apply(untouched)
	assert.Equal(t, "info", untouched.GetString("settings.log_level"))
	assert.False(t, untouched.GetBool("console.no_color"))
}

func TestBootstrap_ConfigErrorsStopBeforeDatabase(t *testing.T) {
	t.Run("unreadable config file", func(t *testing.T) {
		_, err := Bootstrap(context.Background(), Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
		assert.Equal(t, errors.CodeConfigReadError, errors.GetCode(err))
	})

	t.Run("invalid override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("database:\n  url: postgres://localhost:1/none\n"), 0o644))

		var logs bytes.Buffer
		_, err := Bootstrap(context.Background(), Options{
			ConfigFile: path,
			Overrides:  Overrides{LogLevel: "loud"},
			LogOutput:  &logs,
		})
		assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))
		assert.Contains(t, err.Error(), "LogLevel")
	})
}
