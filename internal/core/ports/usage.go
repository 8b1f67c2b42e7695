package ports

import (
	"context"

	"github.com/google/uuid"
)

// UsageResult mirrors the consume_tenant_tokens RPC response.
type UsageResult struct {
	Success     bool   `json:"success"`
	Remaining   int64  `json:"remaining"`
	IsThrottled bool   `json:"is_throttled"`
	Message     string `json:"message"`
}

//go:generate mockery --name UsageConsumer --output ./mocks --outpkg mocks --case underscore
type UsageConsumer interface {
	ConsumeTokens(ctx context.Context, tenantID uuid.UUID, tokens int) (UsageResult, error)
}

// UsageMeter accepts token usage without blocking the caller.
type UsageMeter interface {
	Record(tenantID uuid.UUID, tokens int)
}
