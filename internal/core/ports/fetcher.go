package ports

import (
	"context"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
)

// StateFetcher captures the actual state of one kind of entity. Fetch never
// fails outright; problems are carried in Snapshot.Err.
type StateFetcher interface {
	Kind() domain.EntityKind
	Fetch(ctx context.Context, spec domain.Specification, targetPath string) domain.Snapshot
}
