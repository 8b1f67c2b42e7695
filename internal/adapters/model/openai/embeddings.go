// Package openai implements the embeddings port against /v1/embeddings.
package openai

import (
	"context"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/olusolaa/oracle-plus/internal/adapters/model/transport"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

const (
	DefaultModel   = "text-embedding-3-small"
	DefaultBaseURL = "https://api.openai.com"
)

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
}

type Embedder struct {
	http    *retryablehttp.Client
	apiKey  string
	model   string
	baseURL string
}

func NewEmbedder(cfg Config, logger ports.Logger) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewUserFacing(apperrors.CodeConfigValidation, "OpenAI API key is not set",
			"Set OPENAI_API_KEY or embeddings.api_key.")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Embedder{
		http:    transport.NewClient(transport.Options{MaxRetries: cfg.MaxRetries}, logger),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

type embeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	raw, err := transport.PostJSON(ctx, e.http, "openai", e.baseURL+"/v1/embeddings",
		map[string]string{"Authorization": "Bearer " + e.apiKey},
		embeddingRequest{Input: text, Model: e.model})
	if err != nil {
		return nil, err
	}

	values := gjson.GetBytes(raw, "data.0.embedding")
	if !values.IsArray() {
		return nil, apperrors.New(apperrors.CodeUpstream, "openai response has no embedding")
	}
	arr := values.Array()
	vector := make([]float32, 0, len(arr))
	for _, v := range arr {
		vector = append(vector, float32(v.Float()))
	}
	return vector, nil
}
