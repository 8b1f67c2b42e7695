package service

import (
	"context"
	"fmt"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

type IndexSummary struct {
	Total   int
	Indexed int
	Failed  int
}

type Indexer struct {
	specs    ports.SpecificationStore
	embedder ports.Embedder
	logger   ports.Logger
}

func NewIndexer(specs ports.SpecificationStore, embedder ports.Embedder, logger ports.Logger) *Indexer {
	return &Indexer{specs: specs, embedder: embedder, logger: logger}
}

func EmbeddingText(spec domain.Specification) string {
	return fmt.Sprintf("%s: %s\n\n%s", spec.EntityType, spec.EntityName, spec.Content)
}

// IndexOne embeds a single specification and returns the vector dimensions.
func (i *Indexer) IndexOne(ctx context.Context, specID string) (int, error) {
	spec, err := i.specs.GetSpecification(ctx, specID)
	if err != nil {
		return 0, err
	}
	return i.index(ctx, spec)
}

// IndexAll embeds every non-deleted specification sequentially. Individual
// failures are logged and counted; only a listing failure is returned.
func (i *Indexer) IndexAll(ctx context.Context) (IndexSummary, error) {
	specs, err := i.specs.ListIndexableSpecifications(ctx)
	if err != nil {
		return IndexSummary{}, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to list specifications for indexing")
	}

	summary := IndexSummary{Total: len(specs)}
	for _, spec := range specs {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if _, err := i.index(ctx, spec); err != nil {
			summary.Failed++
			i.logger.Errorf(ctx, err, "Indexing spec %s (%s) failed", spec.ID, spec.EntityName)
			continue
		}
		summary.Indexed++
	}
	return summary, nil
}

func (i *Indexer) index(ctx context.Context, spec domain.Specification) (int, error) {
	vector, err := i.embedder.Embed(ctx, EmbeddingText(spec))
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeUpstream, "embedding request failed")
	}
	if len(vector) == 0 {
		return 0, apperrors.New(apperrors.CodeUpstream, "embedding provider returned an empty vector")
	}
	if err := i.specs.SaveEmbedding(ctx, spec.ID.String(), vector); err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to save embedding")
	}
	i.logger.Debugf(ctx, "Indexed spec %s with %d dimensions", spec.ID, len(vector))
	return len(vector), nil
}
