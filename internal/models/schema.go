package models

import "time"

// DisplayColumn is the column shown in place of a foreign key id.
const DisplayColumn = "name"

type ForeignKeyRef struct {
	Column           string `json:"column"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

type TableDescriptor struct {
	Name        ManagedTable    `json:"name"`
	Columns     []string        `json:"columns"`
	PrimaryKey  string          `json:"primary_key"`
	ForeignKeys []ForeignKeyRef `json:"foreign_keys"`
}

func (d TableDescriptor) HasColumn(column string) bool {
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// ForeignKey returns the reference declared on column, if any.
func (d TableDescriptor) ForeignKey(column string) (ForeignKeyRef, bool) {
	for _, fk := range d.ForeignKeys {
		if fk.Column == column {
			return fk, true
		}
	}
	return ForeignKeyRef{}, false
}

// FieldOption is one selectable referenced row in a form menu.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SchemaFieldMap maps every column of a table to its menu options.
// Plain columns map to a nil slice.
type SchemaFieldMap map[string][]FieldOption

// Names returns the display names offered for column, in database order.
func (m SchemaFieldMap) Names(column string) []string {
	opts := m[column]
	if opts == nil {
		return nil
	}
	names := make([]string, len(opts))
	for i, o := range opts {
		names[i] = o.Label
	}
	return names
}

func (m SchemaFieldMap) IsForeignKey(column string) bool {
	return m[column] != nil
}

type PrimaryKeyMap map[ManagedTable]string

// RowPayload is the set of submitted values for one write request.
type RowPayload map[string]any

// Snapshot is the schema metadata built at boot. It is never mutated;
// a refresh produces a new Snapshot.
type Snapshot struct {
	Tables      map[ManagedTable]TableDescriptor `json:"tables"`
	PrimaryKeys PrimaryKeyMap                    `json:"primary_keys"`
	Fields      map[ManagedTable]SchemaFieldMap  `json:"fields"`
	LoadedAt    time.Time                        `json:"loaded_at"`
}

func (s *Snapshot) Table(t ManagedTable) (TableDescriptor, bool) {
	if s == nil {
		return TableDescriptor{}, false
	}
	d, ok := s.Tables[t]
	return d, ok
}

// TableColumn represents a table and column pair
type TableColumn struct {
	Table  string
	Column string
}

// ForeignKeyConstraint is a raw foreign key row from information_schema.
type ForeignKeyConstraint struct {
	ConstraintName   string
	Column           string
	ReferencedTable  string
	ReferencedColumn string
}
