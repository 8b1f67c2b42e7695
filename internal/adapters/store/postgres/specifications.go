package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

const specColumns = `id, app_id, entity_type, entity_name, spec_content, status, deleted_at, created_at`

func (s *Store) GetSpecification(ctx context.Context, id string) (domain.Specification, error) {
	specID, err := uuid.Parse(id)
	if err != nil {
		return domain.Specification{}, notFound(id)
	}

	query := `SELECT ` + specColumns + ` FROM specifications WHERE id = $1 AND deleted_at IS NULL`
	args := []any{specID}
	if s.tenantID != nil {
		query += ` AND app_id = $2`
		args = append(args, *s.tenantID)
	}

	spec, err := scanSpecification(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Specification{}, notFound(id)
		}
		return domain.Specification{}, storeErr(err, "failed to load specification")
	}
	return spec, nil
}

func (s *Store) ListActiveSpecifications(ctx context.Context) ([]domain.Specification, error) {
	return s.listSpecifications(ctx, true)
}

func (s *Store) ListIndexableSpecifications(ctx context.Context) ([]domain.Specification, error) {
	return s.listSpecifications(ctx, false)
}

func (s *Store) listSpecifications(ctx context.Context, activeOnly bool) ([]domain.Specification, error) {
	where := "WHERE deleted_at IS NULL"
	var args []any
	if activeOnly {
		where += " AND status = 'active'"
	}
	if s.tenantID != nil {
		where += " AND app_id = $1"
		args = append(args, *s.tenantID)
	}
	query := fmt.Sprintf(`SELECT %s FROM specifications %s ORDER BY created_at, id`, specColumns, where)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err, "failed to list specifications")
	}
	defer rows.Close()

	var specs []domain.Specification
	for rows.Next() {
		spec, err := scanSpecification(rows)
		if err != nil {
			return nil, storeErr(err, "failed to read specification row")
		}
		specs = append(specs, spec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to list specifications")
	}
	s.logger.Debugf(ctx, "Loaded %d specification(s) (active_only=%t)", len(specs), activeOnly)
	return specs, nil
}

// SaveEmbedding stores vector in the pgvector column of the specification.
func (s *Store) SaveEmbedding(ctx context.Context, id string, vector []float32) error {
	specID, err := uuid.Parse(id)
	if err != nil {
		return notFound(id)
	}
	tag, err := s.db.Exec(ctx, `UPDATE specifications SET embedding = $1::vector WHERE id = $2`, VectorLiteral(vector), specID)
	if err != nil {
		return storeErr(err, "failed to update embedding")
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

// VectorLiteral renders a pgvector text literal such as [0.1,0.2].
func VectorLiteral(vector []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func scanSpecification(row pgx.Row) (domain.Specification, error) {
	var spec domain.Specification
	var deletedAt *time.Time
	if err := row.Scan(&spec.ID, &spec.TenantID, &spec.EntityType, &spec.EntityName, &spec.Content, &spec.Status, &deletedAt, &spec.CreatedAt); err != nil {
		return domain.Specification{}, err
	}
	spec.DeletedAt = deletedAt
	return spec, nil
}

func notFound(id string) error {
	return apperrors.NewUserFacing(apperrors.CodeNotFound,
		fmt.Sprintf("specification %s not found", id),
		"Check the id; deleted specifications and other tenants' specifications are not visible.")
}
