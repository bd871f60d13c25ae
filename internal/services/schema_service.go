package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"plantfriend/internal/models"
)

const bootstrapTimeout = 30 * time.Second

var (
	ErrBootstrap         = errors.New("schema bootstrap failed")
	ErrSnapshotNotLoaded = errors.New("schema snapshot not loaded")
)

// SchemaReader is the metadata source the schema cache is built from.
type SchemaReader interface {
	GetColumns(ctx context.Context, table string) ([]string, error)
	GetPrimaryKeys(ctx context.Context, tables []string) ([]models.TableColumn, error)
	GetForeignKeys(ctx context.Context, table string) ([]models.ForeignKeyConstraint, error)
	GetDisplayNames(ctx context.Context, table, idColumn, nameColumn string) ([]models.FieldOption, error)
}

// SchemaService owns the schema snapshot of the managed tables. The
// snapshot is replaced wholesale, never edited in place.
type SchemaService struct {
	reader  SchemaReader
	current atomic.Pointer[models.Snapshot]
}

// NewSchemaService creates a new SchemaService
func NewSchemaService(reader SchemaReader) *SchemaService {
	return &SchemaService{reader: reader}
}

// Snapshot returns the published snapshot, or nil before Load.
func (s *SchemaService) Snapshot() *models.Snapshot {
	return s.current.Load()
}

// Load introspects every managed table and publishes the result. Any
// error is a bootstrap failure and leaves the previous snapshot in place.
func (s *SchemaService) Load(ctx context.Context) (*models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	snap, err := s.buildSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrap, err)
	}
	s.current.Store(snap)
	log.Printf("Schema snapshot loaded: %d tables", len(snap.Tables))
	return snap, nil
}

// Refresh rebuilds the snapshot from the database.
func (s *SchemaService) Refresh(ctx context.Context) (*models.Snapshot, error) {
	return s.Load(ctx)
}

func (s *SchemaService) buildSnapshot(ctx context.Context) (*models.Snapshot, error) {
	pks, err := s.ResolvePrimaryKeys(ctx)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		Tables:      make(map[models.ManagedTable]models.TableDescriptor),
		PrimaryKeys: pks,
		Fields:      make(map[models.ManagedTable]models.SchemaFieldMap),
	}

	for _, table := range models.AllTables() {
		desc, err := s.BuildTableDescriptor(ctx, table)
		if err != nil {
			return nil, err
		}
		desc.PrimaryKey = pks[table]
		if !desc.HasColumn(desc.PrimaryKey) {
			return nil, fmt.Errorf("primary key %q of %s is not one of its columns", desc.PrimaryKey, table)
		}

		fields, err := s.BuildFkDisplayMap(ctx, desc)
		if err != nil {
			return nil, err
		}

		snap.Tables[table] = desc
		snap.Fields[table] = fields
	}

	snap.LoadedAt = time.Now()
	return snap, nil
}

// BuildTableDescriptor reads the columns and foreign keys of one table.
func (s *SchemaService) BuildTableDescriptor(ctx context.Context, table models.ManagedTable) (models.TableDescriptor, error) {
	columns, err := s.reader.GetColumns(ctx, string(table))
	if err != nil {
		return models.TableDescriptor{}, fmt.Errorf("failed to get columns for %s: %w", table, err)
	}
	if len(columns) == 0 {
		return models.TableDescriptor{}, fmt.Errorf("table %s does not exist or has no columns", table)
	}

	constraints, err := s.reader.GetForeignKeys(ctx, string(table))
	if err != nil {
		return models.TableDescriptor{}, fmt.Errorf("failed to get foreign keys for %s: %w", table, err)
	}

	position := make(map[string]int, len(columns))
	for i, c := range columns {
		position[c] = i
	}

	perConstraint := make(map[string]int, len(constraints))
	fks := make([]models.ForeignKeyRef, 0, len(constraints))
	for _, c := range constraints {
		perConstraint[c.ConstraintName]++
		if perConstraint[c.ConstraintName] > 1 {
			return models.TableDescriptor{}, fmt.Errorf("composite foreign key %s on %s is not supported", c.ConstraintName, table)
		}
		if _, ok := position[c.Column]; !ok {
			return models.TableDescriptor{}, fmt.Errorf("foreign key column %s.%s is not a table column", table, c.Column)
		}
		fks = append(fks, models.ForeignKeyRef{
			Column:           c.Column,
			ReferencedTable:  c.ReferencedTable,
			ReferencedColumn: c.ReferencedColumn,
		})
	}
	sort.SliceStable(fks, func(i, j int) bool {
		return position[fks[i].Column] < position[fks[j].Column]
	})

	return models.TableDescriptor{
		Name:        table,
		Columns:     columns,
		ForeignKeys: fks,
	}, nil
}

// BuildFkDisplayMap lists, for every foreign key column, the display names
// of the rows it can reference. Plain columns map to nil.
func (s *SchemaService) BuildFkDisplayMap(ctx context.Context, desc models.TableDescriptor) (models.SchemaFieldMap, error) {
	fields := make(models.SchemaFieldMap, len(desc.Columns))
	for _, c := range desc.Columns {
		fields[c] = nil
	}

	for _, fk := range desc.ForeignKeys {
		options, err := s.reader.GetDisplayNames(ctx, fk.ReferencedTable, fk.ReferencedColumn, models.DisplayColumn)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s options for %s.%s: %w", fk.ReferencedTable, desc.Name, fk.Column, err)
		}
		if options == nil {
			options = []models.FieldOption{}
		}
		fields[fk.Column] = options
	}

	return fields, nil
}

// ResolvePrimaryKeys maps every managed table to its single primary key
// column using one metadata query.
func (s *SchemaService) ResolvePrimaryKeys(ctx context.Context) (models.PrimaryKeyMap, error) {
	tables := models.AllTables()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = string(t)
	}

	pairs, err := s.reader.GetPrimaryKeys(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to get primary keys: %w", err)
	}

	pks := make(models.PrimaryKeyMap, len(tables))
	for _, p := range pairs {
		table, err := models.ParseManagedTable(p.Table)
		if err != nil {
			continue
		}
		if existing, ok := pks[table]; ok {
			return nil, fmt.Errorf("table %s has a composite primary key (%s, %s)", table, existing, p.Column)
		}
		pks[table] = p.Column
	}

	for _, t := range tables {
		if _, ok := pks[t]; !ok {
			return nil, fmt.Errorf("table %s has no primary key", t)
		}
	}

	return pks, nil
}

// RefreshFields rebuilds the menu options of one table from the current
// database contents. The shared snapshot is left untouched.
func (s *SchemaService) RefreshFields(ctx context.Context, table models.ManagedTable) (models.SchemaFieldMap, error) {
	desc, ok := s.Snapshot().Table(table)
	if !ok {
		return nil, ErrSnapshotNotLoaded
	}
	return s.BuildFkDisplayMap(ctx, desc)
}
