package services

import (
	"context"
	"errors"
	"fmt"

	"plantfriend/internal/models"
	"plantfriend/internal/sqlbuilder"
)

// fakeReader serves metadata for the demo schema from memory.
type fakeReader struct {
	columns     map[string][]string
	pks         []models.TableColumn
	fks         map[string][]models.ForeignKeyConstraint
	names       map[string][]models.FieldOption
	nameQueries int
	failColumns bool
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		columns: map[string][]string{
			"actions":          {"action_id", "action_types_action_type_id", "action_date", "plants_plant_id"},
			"locations":        {"location_id", "name", "is_indoors", "light_categories_category_id"},
			"plants":           {"plant_id", "name", "date_added", "locations_location_id"},
			"sensor_readings":  {"sensor_reading_id", "date_time", "value", "sensors_sensor_id"},
			"sensors":          {"sensor_id", "name", "sensor_type", "data_units", "status", "plants_plant_id"},
			"updates":          {"update_id", "update_date", "health_score", "comment", "image_location", "plants_plant_id"},
			"light_categories": {"category_id", "name"},
			"action_types":     {"action_type_id", "name"},
		},
		pks: []models.TableColumn{
			{Table: "action_types", Column: "action_type_id"},
			{Table: "actions", Column: "action_id"},
			{Table: "light_categories", Column: "category_id"},
			{Table: "locations", Column: "location_id"},
			{Table: "plants", Column: "plant_id"},
			{Table: "sensor_readings", Column: "sensor_reading_id"},
			{Table: "sensors", Column: "sensor_id"},
			{Table: "updates", Column: "update_id"},
			{Table: "statement_history", Column: "id"},
		},
		fks: map[string][]models.ForeignKeyConstraint{
			"actions": {
				{ConstraintName: "plant_fk", Column: "plants_plant_id", ReferencedTable: "plants", ReferencedColumn: "plant_id"},
				{ConstraintName: "actions_types_fk", Column: "action_types_action_type_id", ReferencedTable: "action_types", ReferencedColumn: "action_type_id"},
			},
			"locations": {
				{ConstraintName: "locations_category_fk", Column: "light_categories_category_id", ReferencedTable: "light_categories", ReferencedColumn: "category_id"},
			},
			"plants": {
				{ConstraintName: "plants_location_fk", Column: "locations_location_id", ReferencedTable: "locations", ReferencedColumn: "location_id"},
			},
			"sensor_readings": {
				{ConstraintName: "readings_sensor_fk", Column: "sensors_sensor_id", ReferencedTable: "sensors", ReferencedColumn: "sensor_id"},
			},
			"sensors": {
				{ConstraintName: "plant_fk", Column: "plants_plant_id", ReferencedTable: "plants", ReferencedColumn: "plant_id"},
			},
			"updates": {
				{ConstraintName: "plant_fk", Column: "plants_plant_id", ReferencedTable: "plants", ReferencedColumn: "plant_id"},
			},
		},
		names: map[string][]models.FieldOption{
			"plants":           {{Value: "1", Label: "Fern"}, {Value: "2", Label: "Basil"}},
			"locations":        {{Value: "1", Label: "Kitchen"}},
			"sensors":          {{Value: "1", Label: "Soil probe"}},
			"light_categories": {{Value: "1", Label: "Full sun"}},
			"action_types":     {{Value: "1", Label: "Water"}},
		},
	}
}

func (f *fakeReader) GetColumns(ctx context.Context, table string) ([]string, error) {
	if f.failColumns {
		return nil, errors.New("connection refused")
	}
	return f.columns[table], nil
}

func (f *fakeReader) GetPrimaryKeys(ctx context.Context, tables []string) ([]models.TableColumn, error) {
	return f.pks, nil
}

func (f *fakeReader) GetForeignKeys(ctx context.Context, table string) ([]models.ForeignKeyConstraint, error) {
	return f.fks[table], nil
}

func (f *fakeReader) GetDisplayNames(ctx context.Context, table, idColumn, nameColumn string) ([]models.FieldOption, error) {
	f.nameQueries++
	opts, ok := f.names[table]
	if !ok {
		return nil, fmt.Errorf("column %q does not exist in %s", nameColumn, table)
	}
	out := make([]models.FieldOption, len(opts))
	copy(out, opts)
	return out, nil
}

type fakeRows struct {
	queries  []sqlbuilder.Statement
	execs    []sqlbuilder.Statement
	result   *models.QueryResult
	affected int64
	execErr  error
}

func (f *fakeRows) Query(ctx context.Context, stmt sqlbuilder.Statement) (*models.QueryResult, error) {
	f.queries = append(f.queries, stmt)
	if f.result == nil {
		return &models.QueryResult{}, nil
	}
	return f.result, nil
}

func (f *fakeRows) Exec(ctx context.Context, stmt sqlbuilder.Statement) (int64, error) {
	f.execs = append(f.execs, stmt)
	return f.affected, f.execErr
}

type fakeHistory struct {
	entries []*models.StatementHistory
	err     error
}

func (f *fakeHistory) Create(entry *models.StatementHistory) error {
	entry.Prepare()
	f.entries = append(f.entries, entry)
	return f.err
}

func (f *fakeHistory) ListRecent(limit int) ([]models.StatementHistory, error) {
	var out []models.StatementHistory
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.entries[i])
	}
	return out, nil
}
