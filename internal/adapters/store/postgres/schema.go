package postgres

import (
	"context"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
)

// TableColumns lists the live columns of table in the configured schema, in
// ordinal order. An unknown table yields an empty slice.
func (s *Store) TableColumns(ctx context.Context, table string) ([]ports.Column, error) {
	const query = `
        SELECT column_name, data_type, is_nullable, column_default
        FROM information_schema.columns
        WHERE table_schema = $1 AND table_name = $2
        ORDER BY ordinal_position`

	rows, err := s.db.Query(ctx, query, s.schema, table)
	if err != nil {
		return nil, storeErr(err, "failed to introspect table "+table)
	}
	defer rows.Close()

	columns := []ports.Column{}
	for rows.Next() {
		var c ports.Column
		if err := rows.Scan(&c.Name, &c.DataType, &c.Nullable, &c.Default); err != nil {
			return nil, storeErr(err, "failed to read column row")
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to introspect table "+table)
	}
	return columns, nil
}
