package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantfriend/internal/models"
)

type SchemaRepository struct {
	pool   *pgxpool.Pool
	schema string
}

func NewSchemaRepository(pool *pgxpool.Pool, schema string) *SchemaRepository {
	if schema == "" {
		schema = "public"
	}
	return &SchemaRepository{pool: pool, schema: schema}
}

// GetColumns returns the column names of a table in ordinal order
func (r *SchemaRepository) GetColumns(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := r.pool.Query(ctx, query, r.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return columns, nil
}

// GetPrimaryKeys returns (table, column) pairs for the primary keys of the given tables
func (r *SchemaRepository) GetPrimaryKeys(ctx context.Context, tables []string) ([]models.TableColumn, error) {
	query := `
		SELECT tc.table_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = $1
			AND tc.table_name = ANY($2)
		ORDER BY tc.table_name, kcu.ordinal_position
	`

	rows, err := r.pool.Query(ctx, query, r.schema, tables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pks []models.TableColumn
	for rows.Next() {
		var pk models.TableColumn
		if err := rows.Scan(&pk.Table, &pk.Column); err != nil {
			return nil, err
		}
		pks = append(pks, pk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pks, nil
}

// GetForeignKeys returns one entry per foreign key column of a table.
// Constraint names are only unique per table, so the catalog is filtered
// by the owning relation rather than by name.
func (r *SchemaRepository) GetForeignKeys(ctx context.Context, table string) ([]models.ForeignKeyConstraint, error) {
	query := `
		SELECT
			con.conname,
			col.attname,
			ref.relname AS foreign_table_name,
			refcol.attname AS foreign_column_name
		FROM pg_catalog.pg_constraint AS con
		JOIN pg_catalog.pg_class AS rel ON rel.oid = con.conrelid
		JOIN pg_catalog.pg_namespace AS nsp ON nsp.oid = rel.relnamespace
		JOIN pg_catalog.pg_class AS ref ON ref.oid = con.confrelid
		CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS k(attnum, refattnum, ord)
		JOIN pg_catalog.pg_attribute AS col
			ON col.attrelid = con.conrelid AND col.attnum = k.attnum
		JOIN pg_catalog.pg_attribute AS refcol
			ON refcol.attrelid = con.confrelid AND refcol.attnum = k.refattnum
		WHERE con.contype = 'f'
			AND nsp.nspname = $1
			AND rel.relname = $2
		ORDER BY col.attnum, con.conname, k.ord
	`

	rows, err := r.pool.Query(ctx, query, r.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []models.ForeignKeyConstraint
	for rows.Next() {
		var fk models.ForeignKeyConstraint
		if err := rows.Scan(&fk.ConstraintName, &fk.Column, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fks, nil
}

// GetDisplayNames returns (id, display name) pairs of every row in a
// referenced table, in the order the database returns them
func (r *SchemaRepository) GetDisplayNames(ctx context.Context, table, idColumn, nameColumn string) ([]models.FieldOption, error) {
	query := fmt.Sprintf("SELECT %s::text, %s::text FROM %s",
		pgx.Identifier{idColumn}.Sanitize(),
		pgx.Identifier{nameColumn}.Sanitize(),
		pgx.Identifier{r.schema, table}.Sanitize(),
	)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read display names from %s: %w", table, err)
	}
	defer rows.Close()

	options := []models.FieldOption{}
	for rows.Next() {
		var id, name *string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		var opt models.FieldOption
		if id != nil {
			opt.Value = *id
		}
		if name != nil {
			opt.Label = *name
		}
		options = append(options, opt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return options, nil
}
