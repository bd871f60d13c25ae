package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"plantfriend/internal/display"
	"plantfriend/internal/models"
	"plantfriend/internal/sqlbuilder"
)

var ErrRowNotFound = errors.New("no row matches the primary key")

type RowStore interface {
	Query(ctx context.Context, stmt sqlbuilder.Statement) (*models.QueryResult, error)
	Exec(ctx context.Context, stmt sqlbuilder.Statement) (int64, error)
}

type HistoryStore interface {
	Create(entry *models.StatementHistory) error
	ListRecent(limit int) ([]models.StatementHistory, error)
}

// SnapshotSource supplies schema metadata to the table service.
type SnapshotSource interface {
	Snapshot() *models.Snapshot
	RefreshFields(ctx context.Context, table models.ManagedTable) (models.SchemaFieldMap, error)
}

type TableService struct {
	schema  SnapshotSource
	rows    RowStore
	history HistoryStore
}

func NewTableService(schema SnapshotSource, rows RowStore, history HistoryStore) *TableService {
	return &TableService{
		schema:  schema,
		rows:    rows,
		history: history,
	}
}

// TablePage is everything a list view renders for one table.
type TablePage struct {
	Table      models.ManagedTable   `json:"table"`
	Title      string                `json:"title"`
	PrimaryKey string                `json:"primary_key"`
	Columns    []string              `json:"columns"`
	Fields     models.SchemaFieldMap `json:"fields"`
	Labels     map[string]string     `json:"labels"`
	Rows       []map[string]any      `json:"rows"`
	RowCount   int                   `json:"row_count"`
}

type WriteResult struct {
	Table        models.ManagedTable `json:"table"`
	Operation    string              `json:"operation"`
	RowsAffected int64               `json:"rows_affected"`
}

func (s *TableService) descriptor(table models.ManagedTable) (models.TableDescriptor, error) {
	desc, ok := s.schema.Snapshot().Table(table)
	if !ok {
		return models.TableDescriptor{}, ErrSnapshotNotLoaded
	}
	return desc, nil
}

// ListRows loads every row of a table with foreign keys resolved to their
// display names, and fresh menu options for the table's forms.
func (s *TableService) ListRows(ctx context.Context, table models.ManagedTable) (*TablePage, error) {
	desc, err := s.descriptor(table)
	if err != nil {
		return nil, err
	}

	stmt, err := sqlbuilder.BuildSelect(desc)
	if err != nil {
		return nil, err
	}

	result, err := s.rows.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}

	fields, err := s.schema.RefreshFields(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh %s options: %w", table, err)
	}

	return &TablePage{
		Table:      table,
		Title:      display.PageTitle(string(table)),
		PrimaryKey: desc.PrimaryKey,
		Columns:    desc.Columns,
		Fields:     fields,
		Labels:     display.Labels(desc.Columns),
		Rows:       result.Rows,
		RowCount:   result.RowCount,
	}, nil
}

func (s *TableService) CreateRow(ctx context.Context, table models.ManagedTable, row models.RowPayload) (*WriteResult, error) {
	desc, err := s.descriptor(table)
	if err != nil {
		return nil, err
	}
	stmt, err := sqlbuilder.BuildInsert(desc, row)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, table, models.OperationInsert, stmt, false)
}

func (s *TableService) UpdateRow(ctx context.Context, table models.ManagedTable, row models.RowPayload) (*WriteResult, error) {
	desc, err := s.descriptor(table)
	if err != nil {
		return nil, err
	}
	stmt, err := sqlbuilder.BuildUpdate(desc, row, desc.PrimaryKey)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, table, models.OperationUpdate, stmt, true)
}

func (s *TableService) DeleteRow(ctx context.Context, table models.ManagedTable, row models.RowPayload) (*WriteResult, error) {
	desc, err := s.descriptor(table)
	if err != nil {
		return nil, err
	}
	stmt, err := sqlbuilder.BuildDelete(desc, row, desc.PrimaryKey)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, table, models.OperationDelete, stmt, true)
}

// History returns the most recent write statements, newest first.
func (s *TableService) History(limit int) ([]models.StatementHistory, error) {
	return s.history.ListRecent(limit)
}

func (s *TableService) write(ctx context.Context, table models.ManagedTable, op string, stmt sqlbuilder.Statement, keyed bool) (*WriteResult, error) {
	startTime := time.Now()
	affected, err := s.rows.Exec(ctx, stmt)
	execTime := int(time.Since(startTime).Milliseconds())

	success := err == nil
	entry := &models.StatementHistory{
		Target:          string(table),
		Operation:       op,
		StatementText:   stmt.SQL,
		Success:         &success,
		RowsAffected:    affected,
		ExecutionTimeMs: &execTime,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if herr := s.history.Create(entry); herr != nil {
		log.Printf("failed to record %s on %s: %v", op, table, herr)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to %s %s row: %w", op, table, err)
	}
	if keyed && affected == 0 {
		return nil, ErrRowNotFound
	}

	return &WriteResult{
		Table:        table,
		Operation:    op,
		RowsAffected: affected,
	}, nil
}
