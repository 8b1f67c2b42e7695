package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	ports "github.com/olusolaa/oracle-plus/internal/core/ports"
)

type Model struct {
	mock.Mock
}

func (m *Model) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *Model) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.GenerateResponse), args.Error(1)
}

type Embedder struct {
	mock.Mock
}

func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type UsageConsumer struct {
	mock.Mock
}

func (m *UsageConsumer) ConsumeTokens(ctx context.Context, tenantID uuid.UUID, tokens int) (ports.UsageResult, error) {
	args := m.Called(ctx, tenantID, tokens)
	return args.Get(0).(ports.UsageResult), args.Error(1)
}

type UsageMeter struct {
	mock.Mock
}

func (m *UsageMeter) Record(tenantID uuid.UUID, tokens int) {
	m.Called(tenantID, tokens)
}

type Sink struct {
	mock.Mock
}

func (m *Sink) Write(ctx context.Context, target string, body []byte) error {
	args := m.Called(ctx, target, body)
	return args.Error(0)
}
