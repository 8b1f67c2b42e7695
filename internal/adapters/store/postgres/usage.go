package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

// ConsumeTokens debits a tenant's token budget through the
// consume_tenant_tokens function.
func (s *Store) ConsumeTokens(ctx context.Context, tenantID uuid.UUID, tokens int) (ports.UsageResult, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT consume_tenant_tokens($1, $2)`, tenantID, tokens).Scan(&raw)
	if err != nil {
		return ports.UsageResult{}, storeErr(err, "consume_tenant_tokens failed")
	}

	var res ports.UsageResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return ports.UsageResult{}, apperrors.Wrap(err, apperrors.CodeStoreError, "unexpected consume_tenant_tokens response")
	}
	return res, nil
}
