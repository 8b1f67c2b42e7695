package ports

import (
	"context"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
)

type GenerateRequest struct {
	Prompt    string
	MaxTokens int
}

type GenerateResponse struct {
	Text  string
	Model string
	Usage domain.Usage
	// UsageReported is false when the provider returned no token counts.
	UsageReported bool
}

//go:generate mockery --name Model --output ./mocks --outpkg mocks --case underscore
type Model interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

//go:generate mockery --name Embedder --output ./mocks --outpkg mocks --case underscore
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RateLimiter gates outbound model calls.
type RateLimiter interface {
	Wait(ctx context.Context) error
}
