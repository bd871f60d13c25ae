// Package sqlbuilder turns table descriptors and submitted rows into
// parameterized statements. Identifiers come only from introspected
// descriptors; every value is bound as a placeholder.
package sqlbuilder

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"

	"plantfriend/internal/models"
)

var (
	ErrEmptyPayload      = errors.New("payload has no columns to write")
	ErrMissingPrimaryKey = errors.New("payload is missing the primary key value")
	ErrUnknownColumn     = errors.New("unknown column")
)

// Statement is a SQL template with its bound values, in placeholder order.
type Statement struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args"`
}

func (s Statement) String() string {
	return s.SQL
}

// fkAlias is the join alias for the table referenced by column.
func fkAlias(column string) string {
	return "fk_" + column
}

func ident(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

// BuildSelect lists every column of the table, replacing each foreign key
// column with the display name of the referenced row.
func BuildSelect(desc models.TableDescriptor) (Statement, error) {
	if len(desc.Columns) == 0 {
		return Statement{}, fmt.Errorf("table %s has no columns", desc.Name)
	}
	table := string(desc.Name)

	projections := make([]string, 0, len(desc.Columns))
	joins := make([]string, 0, len(desc.ForeignKeys))
	for _, col := range desc.Columns {
		fk, ok := desc.ForeignKey(col)
		if !ok {
			projections = append(projections, ident(table, col))
			continue
		}
		alias := fkAlias(col)
		projections = append(projections, fmt.Sprintf("%s AS %s", ident(alias, models.DisplayColumn), ident(col)))
		joins = append(joins, fmt.Sprintf("LEFT JOIN %s AS %s ON %s = %s",
			ident(fk.ReferencedTable),
			ident(alias),
			ident(table, col),
			ident(alias, fk.ReferencedColumn),
		))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(projections, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(ident(table))
	for _, j := range joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	if desc.PrimaryKey != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(ident(table, desc.PrimaryKey))
	}

	return Statement{SQL: sb.String()}, nil
}

// BuildInsert writes every column of row that carries a value. Columns
// missing from row fall back to database defaults.
func BuildInsert(desc models.TableDescriptor, row models.RowPayload) (Statement, error) {
	if err := checkColumns(desc, row); err != nil {
		return Statement{}, err
	}

	var cols, holders []string
	var args []any
	for _, col := range desc.Columns {
		v, ok := row[col]
		if !ok || isEmpty(v) {
			continue
		}
		args = append(args, v)
		cols = append(cols, ident(col))
		holders = append(holders, fmt.Sprintf("$%d", len(args)))
	}
	if len(cols) == 0 {
		return Statement{}, ErrEmptyPayload
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ident(string(desc.Name)),
		strings.Join(cols, ", "),
		strings.Join(holders, ", "),
	)
	return Statement{SQL: sql, Args: args}, nil
}

// BuildUpdate sets every non key column present in row on the row
// identified by the primary key value. Empty strings are written as NULL.
func BuildUpdate(desc models.TableDescriptor, row models.RowPayload, primaryKey string) (Statement, error) {
	key, err := keyValue(desc, row, primaryKey)
	if err != nil {
		return Statement{}, err
	}

	var sets []string
	var args []any
	for _, col := range desc.Columns {
		if col == primaryKey {
			continue
		}
		v, ok := row[col]
		if !ok {
			continue
		}
		if isEmpty(v) {
			v = nil
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(col), len(args)))
	}
	if len(sets) == 0 {
		return Statement{}, ErrEmptyPayload
	}
	args = append(args, key)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		ident(string(desc.Name)),
		strings.Join(sets, ", "),
		ident(primaryKey),
		len(args),
	)
	return Statement{SQL: sql, Args: args}, nil
}

// BuildDelete removes the row identified by the primary key value. Other
// keys in row are ignored.
func BuildDelete(desc models.TableDescriptor, row models.RowPayload, primaryKey string) (Statement, error) {
	key, err := keyValue(desc, row, primaryKey)
	if err != nil {
		return Statement{}, err
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(string(desc.Name)), ident(primaryKey))
	return Statement{SQL: sql, Args: []any{key}}, nil
}

func keyValue(desc models.TableDescriptor, row models.RowPayload, primaryKey string) (any, error) {
	if len(row) == 0 {
		return nil, ErrEmptyPayload
	}
	if primaryKey == "" || !desc.HasColumn(primaryKey) {
		return nil, fmt.Errorf("%w: table %s has no primary key column %q", ErrMissingPrimaryKey, desc.Name, primaryKey)
	}
	if err := checkColumns(desc, row); err != nil {
		return nil, err
	}
	v, ok := row[primaryKey]
	if !ok || isEmpty(v) {
		return nil, fmt.Errorf("%w: %s", ErrMissingPrimaryKey, primaryKey)
	}
	return v, nil
}

func checkColumns(desc models.TableDescriptor, row models.RowPayload) error {
	if len(row) == 0 {
		return ErrEmptyPayload
	}
	for _, col := range slices.Sorted(maps.Keys(row)) {
		if !desc.HasColumn(col) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, desc.Name, col)
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	}
	return false
}
