package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

// AppendValidation inserts rec and returns the generated id. Records are
// never updated afterwards.
func (s *Store) AppendValidation(ctx context.Context, rec domain.ValidationRecord) (string, error) {
	findings, err := json.Marshal(rec.Findings)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode findings")
	}
	var severity *string
	if rec.Severity != nil {
		sev := string(*rec.Severity)
		severity = &sev
	}

	const query = `
        INSERT INTO spec_validations (
            app_id, spec_id, validation_type, target_entity, status, findings,
            severity, total_checks, passed_checks, failed_checks, triggered_by
        ) VALUES ($1,$2,$3,$4,$5,$6::jsonb,$7,$8,$9,$10,$11)
        RETURNING id`

	var id uuid.UUID
	err = s.db.QueryRow(ctx, query,
		rec.TenantID, rec.SpecID, rec.ValidationType, rec.TargetEntity, string(rec.Status), string(findings),
		severity, rec.TotalChecks, rec.PassedChecks, rec.FailedChecks, rec.TriggeredBy,
	).Scan(&id)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeValidationWrite, "failed to insert validation record")
	}
	return id.String(), nil
}

// ListRecentValidations returns up to limit records, newest first, with the
// owning specification's entity type and name.
func (s *Store) ListRecentValidations(ctx context.Context, limit int) ([]domain.ValidationRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	where := ""
	args := []any{limit}
	if s.tenantID != nil {
		where = "WHERE v.app_id = $2"
		args = append(args, *s.tenantID)
	}

	query := fmt.Sprintf(`
        SELECT v.id, v.spec_id, v.app_id, v.validation_type, v.target_entity, v.status,
            v.findings, v.severity, v.total_checks, v.passed_checks, v.failed_checks,
            v.triggered_by, v.created_at, s.entity_type, s.entity_name
        FROM spec_validations v
        LEFT JOIN specifications s ON s.id = v.spec_id
        %s
        ORDER BY v.created_at DESC
        LIMIT $1`, where)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err, "failed to list validations")
	}
	defer rows.Close()

	var records []domain.ValidationRecord
	for rows.Next() {
		rec, err := scanValidation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to list validations")
	}
	return records, nil
}

func scanValidation(row pgx.Row) (domain.ValidationRecord, error) {
	var (
		rec                    domain.ValidationRecord
		status                 string
		findings               []byte
		severity               *string
		entityType, entityName *string
	)
	if err := row.Scan(&rec.ID, &rec.SpecID, &rec.TenantID, &rec.ValidationType, &rec.TargetEntity, &status,
		&findings, &severity, &rec.TotalChecks, &rec.PassedChecks, &rec.FailedChecks,
		&rec.TriggeredBy, &rec.CreatedAt, &entityType, &entityName); err != nil {
		return domain.ValidationRecord{}, storeErr(err, "failed to read validation row")
	}

	rec.Status = domain.CheckStatus(status)
	rec.Findings = []domain.Finding{}
	if len(findings) > 0 {
		if err := json.Unmarshal(findings, &rec.Findings); err != nil {
			return domain.ValidationRecord{}, apperrors.Wrap(err, apperrors.CodeStoreError,
				fmt.Sprintf("validation %s has malformed findings", rec.ID))
		}
	}
	if severity != nil {
		sev := domain.Severity(*severity)
		rec.Severity = &sev
	}
	if entityType != nil {
		rec.EntityType = *entityType
	}
	if entityName != nil {
		rec.EntityName = *entityName
	}
	return rec, nil
}
