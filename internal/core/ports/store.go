package ports

import (
	"context"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
)

//go:generate mockery --name SpecificationStore --output ./mocks --outpkg mocks --case underscore
type SpecificationStore interface {
	// GetSpecification returns NOT_FOUND when the id is unknown, malformed,
	// soft-deleted or outside the configured tenant.
	GetSpecification(ctx context.Context, id string) (domain.Specification, error)
	// ListActiveSpecifications returns eligible specs in insertion order.
	ListActiveSpecifications(ctx context.Context) ([]domain.Specification, error)
	ListIndexableSpecifications(ctx context.Context) ([]domain.Specification, error)
	SaveEmbedding(ctx context.Context, id string, vector []float32) error
}

//go:generate mockery --name ValidationStore --output ./mocks --outpkg mocks --case underscore
type ValidationStore interface {
	AppendValidation(ctx context.Context, rec domain.ValidationRecord) (string, error)
	// ListRecentValidations returns records newest first, joined with the
	// owning specification's type and name.
	ListRecentValidations(ctx context.Context, limit int) ([]domain.ValidationRecord, error)
}

// Column is one live column of an introspected table.
type Column struct {
	Name     string  `json:"column_name"`
	DataType string  `json:"data_type"`
	Nullable string  `json:"is_nullable"`
	Default  *string `json:"column_default"`
}

//go:generate mockery --name SchemaInspector --output ./mocks --outpkg mocks --case underscore
type SchemaInspector interface {
	TableColumns(ctx context.Context, table string) ([]Column, error)
}
