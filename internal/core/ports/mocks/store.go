package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	ports "github.com/olusolaa/oracle-plus/internal/core/ports"
)

type SpecificationStore struct {
	mock.Mock
}

func (m *SpecificationStore) GetSpecification(ctx context.Context, id string) (domain.Specification, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Specification), args.Error(1)
}

func (m *SpecificationStore) ListActiveSpecifications(ctx context.Context) ([]domain.Specification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Specification), args.Error(1)
}

func (m *SpecificationStore) ListIndexableSpecifications(ctx context.Context) ([]domain.Specification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Specification), args.Error(1)
}

func (m *SpecificationStore) SaveEmbedding(ctx context.Context, id string, vector []float32) error {
	args := m.Called(ctx, id, vector)
	return args.Error(0)
}

type ValidationStore struct {
	mock.Mock
}

func (m *ValidationStore) AppendValidation(ctx context.Context, rec domain.ValidationRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *ValidationStore) ListRecentValidations(ctx context.Context, limit int) ([]domain.ValidationRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationRecord), args.Error(1)
}

type SchemaInspector struct {
	mock.Mock
}

func (m *SchemaInspector) TableColumns(ctx context.Context, table string) ([]ports.Column, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Column), args.Error(1)
}
