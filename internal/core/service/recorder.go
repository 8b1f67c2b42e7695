package service

import (
	"context"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

const DefaultTriggeredBy = "cli"

type ValidationRecorder struct {
	store  ports.ValidationStore
	logger ports.Logger
}

func NewValidationRecorder(store ports.ValidationStore, logger ports.Logger) *ValidationRecorder {
	return &ValidationRecorder{store: store, logger: logger}
}

// RecordValidation appends a validation record and returns its id. A failed
// write is logged and yields an empty id; it never fails the caller.
func (r *ValidationRecorder) RecordValidation(ctx context.Context, spec domain.Specification, analysis domain.Analysis, triggeredBy string) string {
	if triggeredBy == "" {
		triggeredBy = DefaultTriggeredBy
	}
	rec := domain.NewValidationRecord(spec, analysis, triggeredBy)

	id, err := r.store.AppendValidation(ctx, rec)
	if err != nil {
		werr := apperrors.WrapAs(err, apperrors.CodeValidationWrite, "failed to store validation record")
		r.logger.Errorf(ctx, werr, "Validation for spec %s was not persisted", spec.ID)
		return ""
	}
	r.logger.Debugf(ctx, "Stored validation %s for spec %s (status=%s, findings=%d)", id, spec.ID, rec.Status, len(rec.Findings))
	return id
}
