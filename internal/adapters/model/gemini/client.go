// Package gemini calls the Generative Language generateContent endpoint.
package gemini

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/olusolaa/oracle-plus/internal/adapters/model/transport"
	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
)

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
}

type Client struct {
	http    *retryablehttp.Client
	apiKey  string
	model   string
	baseURL string
}

func New(cfg Config, logger ports.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewUserFacing(apperrors.CodeConfigValidation, "Gemini API key is not set",
			"Set GEMINI_API_KEY or model.api_key.")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		http:    transport.NewClient(transport.Options{MaxRetries: cfg.MaxRetries}, logger),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

func (c *Client) Name() string { return "gemini/" + c.model }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type request struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

func (c *Client) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	body := request{
		Contents:         []content{{Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: generationConfig{MaxOutputTokens: req.MaxTokens},
	}

	raw, err := transport.PostJSON(ctx, c.http, "gemini", endpoint, map[string]string{"x-goog-api-key": c.apiKey}, body)
	if err != nil {
		return ports.GenerateResponse{}, err
	}

	parsed := gjson.ParseBytes(raw)
	if reason := parsed.Get("promptFeedback.blockReason"); reason.Exists() {
		return ports.GenerateResponse{}, apperrors.New(apperrors.CodeUpstream, "gemini blocked the prompt: "+reason.String())
	}

	var sb strings.Builder
	for _, p := range parsed.Get("candidates.0.content.parts").Array() {
		sb.WriteString(p.Get("text").String())
	}
	if sb.Len() == 0 {
		return ports.GenerateResponse{}, apperrors.New(apperrors.CodeUpstream,
			"gemini returned no text (finishReason="+parsed.Get("candidates.0.finishReason").String()+")")
	}

	usage := parsed.Get("usageMetadata")
	return ports.GenerateResponse{
		Text:  sb.String(),
		Model: c.model,
		Usage: domain.Usage{
			InputTokens:  int(usage.Get("promptTokenCount").Int()),
			OutputTokens: int(usage.Get("candidatesTokenCount").Int()),
		},
		UsageReported: usage.Exists(),
	}, nil
}
