package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	portsmocks "github.com/olusolaa/oracle-plus/internal/core/ports/mocks"
	"github.com/olusolaa/oracle-plus/internal/errors"
)

func TestTableFetcher(t *testing.T) {
	ctx := context.Background()
	spec := domain.Specification{EntityType: "table", EntityName: "profiles"}
	def := "now()"

	tests := []struct {
		name      string
		columns   []ports.Column
		err       error
		wantText  []string
		wantError bool
	}{
		{
			name: "renders columns as indented json",
			columns: []ports.Column{
				{Name: "id", DataType: "uuid", Nullable: "NO"},
				{Name: "created_at", DataType: "timestamp with time zone", Nullable: "YES", Default: &def},
			},
			wantText: []string{`"column_name": "id"`, `"column_default": "now()"`, `"column_default": null`},
		},
		{
			name:     "missing table is noted",
			columns:  []ports.Column{},
			wantText: []string{"Table: profiles (table not found in live schema)"},
		},
		{
			name:      "introspection errors are embedded, not returned",
			err:       stderrors.New("permission denied"),
			wantText:  []string{"schema introspection failed", "permission denied"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inspector := new(portsmocks.SchemaInspector)
			inspector.On("TableColumns", ctx, "profiles").Return(tt.columns, tt.err)

			snap := NewTableFetcher(inspector, portsmocks.NewLogger(t)).Fetch(ctx, spec, "")

			assert.Equal(t, domain.EntityKindTable, snap.Kind)
			for _, want := range tt.wantText {
				assert.Contains(t, snap.Text, want)
			}
			if tt.wantError {
				require.Error(t, snap.Err)
				assert.Equal(t, errors.CodeIntrospectionFailure, errors.GetCode(snap.Err))
			} else {
				assert.NoError(t, snap.Err)
			}
			inspector.AssertExpectations(t)
		})
	}
}

func TestPlaceholderFetchers(t *testing.T) {
	ctx := context.Background()
	spec := domain.Specification{EntityName: "send_digest"}

	assert.Equal(t, "Function: send_digest (implementation check needed)", FunctionFetcher{}.Fetch(ctx, spec, "").Text)
	assert.Equal(t, "", CodeFetcher{}.Fetch(ctx, spec, "").Text)
	assert.Equal(t, "File path: lib/a.dart (code retrieval needed)", CodeFetcher{}.Fetch(ctx, spec, "lib/a.dart").Text)
}
