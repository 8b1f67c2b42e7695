// Package anthropic adapts the Anthropic Messages API to the model port.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

const DefaultModel = "claude-3-5-haiku-latest"

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
}

type Client struct {
	client anthropic.Client
	model  string
	logger ports.Logger
}

func New(cfg Config, logger ports.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewUserFacing(apperrors.CodeConfigValidation, "Anthropic API key is not set",
			"Set ANTHROPIC_API_KEY or model.api_key.")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (c *Client) Name() string { return "anthropic/" + c.model }

func (c *Client) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return ports.GenerateResponse{}, mapError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return ports.GenerateResponse{}, apperrors.New(apperrors.CodeUpstream,
			fmt.Sprintf("anthropic returned no text (stop_reason=%s)", msg.StopReason))
	}
	c.logger.Debugf(ctx, "anthropic %s used %d input / %d output tokens", c.model, msg.Usage.InputTokens, msg.Usage.OutputTokens)

	return ports.GenerateResponse{
		Text:  sb.String(),
		Model: string(msg.Model),
		Usage: domain.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
		UsageReported: true,
	}, nil
}

func mapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		msg := fmt.Sprintf("anthropic returned HTTP %d", apiErr.StatusCode)
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return apperrors.WrapUserFacing(err, apperrors.CodeUpstream, msg, "Check the anthropic API key.")
		}
		return apperrors.Wrap(err, apperrors.CodeUpstream, msg)
	}
	return apperrors.Wrap(err, apperrors.CodeUpstream, "anthropic request failed")
}
