package repositories

import (
	"context"
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantfriend/internal/models"
	"plantfriend/internal/sqlbuilder"
)

// RowRepository executes built statements against the managed tables.
type RowRepository struct {
	pool *pgxpool.Pool
}

func NewRowRepository(pool *pgxpool.Pool) *RowRepository {
	return &RowRepository{pool: pool}
}

// Query runs a SELECT and returns its rows keyed by column name
func (r *RowRepository) Query(ctx context.Context, stmt sqlbuilder.Statement) (*models.QueryResult, error) {
	rows, err := r.pool.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	resultRows := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = normalizeValue(values[i], fields[i].DataTypeOID)
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}

// Exec runs an INSERT, UPDATE or DELETE and returns the affected row count
func (r *RowRepository) Exec(ctx context.Context, stmt sqlbuilder.Statement) (int64, error) {
	tag, err := r.pool.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// dateLayout renders DATE columns, which pgx decodes as midnight UTC.
const dateLayout = "2006-01-02"

func normalizeValue(val any, oid uint32) any {
	switch v := val.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case time.Time:
		if oid == pgtype.DateOID {
			return v.Format(dateLayout)
		}
		return v.Format(time.RFC3339)
	case [16]byte:
		return uuid.UUID(v).String()
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return nil
		}
		return normalizeValue(dv, oid)
	default:
		return v
	}
}
