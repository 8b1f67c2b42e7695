package service

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	"github.com/olusolaa/oracle-plus/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TableFetcher renders the live column list of a table as indented JSON.
type TableFetcher struct {
	inspector ports.SchemaInspector
	logger    ports.Logger
}

func NewTableFetcher(inspector ports.SchemaInspector, logger ports.Logger) *TableFetcher {
	return &TableFetcher{inspector: inspector, logger: logger}
}

func (f *TableFetcher) Kind() domain.EntityKind { return domain.EntityKindTable }

func (f *TableFetcher) Fetch(ctx context.Context, spec domain.Specification, _ string) domain.Snapshot {
	snap := domain.Snapshot{Kind: domain.EntityKindTable}

	columns, err := f.inspector.TableColumns(ctx, spec.EntityName)
	if err != nil {
		snap.Err = errors.Wrap(err, errors.CodeIntrospectionFailure, "schema introspection failed")
		snap.Text = fmt.Sprintf("Table: %s (schema introspection failed: %v)", spec.EntityName, err)
		f.logger.Warnf(ctx, "Introspection of table %s failed, continuing without live schema: %v", spec.EntityName, err)
		return snap
	}
	if len(columns) == 0 {
		snap.Text = fmt.Sprintf("Table: %s (table not found in live schema)", spec.EntityName)
		return snap
	}

	body, err := json.MarshalIndent(columns, "", "  ")
	if err != nil {
		snap.Err = errors.Wrap(err, errors.CodeInternal, "failed to encode table schema")
		snap.Text = fmt.Sprintf("Table: %s (schema could not be encoded)", spec.EntityName)
		return snap
	}
	snap.Text = string(body)
	return snap
}

type FunctionFetcher struct{}

func (FunctionFetcher) Kind() domain.EntityKind { return domain.EntityKindFunction }

func (FunctionFetcher) Fetch(_ context.Context, spec domain.Specification, _ string) domain.Snapshot {
	return domain.Snapshot{
		Kind: domain.EntityKindFunction,
		Text: fmt.Sprintf("Function: %s (implementation check needed)", spec.EntityName),
	}
}

type CodeFetcher struct{}

func (CodeFetcher) Kind() domain.EntityKind { return domain.EntityKindCode }

func (CodeFetcher) Fetch(_ context.Context, _ domain.Specification, targetPath string) domain.Snapshot {
	snap := domain.Snapshot{Kind: domain.EntityKindCode}
	if targetPath != "" {
		snap.Text = fmt.Sprintf("File path: %s (code retrieval needed)", targetPath)
	}
	return snap
}
