package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OperationInsert = "insert"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// StatementHistory maps to the statement_history table.
type StatementHistory struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Target          string    `gorm:"column:table_name;type:text;not null" json:"table_name"`
	Operation       string    `gorm:"type:text;not null" json:"operation"`
	StatementText   string    `gorm:"type:text;not null" json:"statement_text"`
	Success         *bool     `json:"success,omitempty"`
	Error           string    `gorm:"type:text" json:"error,omitempty"`
	RowsAffected    int64     `json:"rows_affected"`
	ExecutionTimeMs *int      `json:"execution_time_ms,omitempty"`
	ExecutedAt      time.Time `gorm:"type:timestamptz" json:"executed_at"`
}

func (StatementHistory) TableName() string { return "statement_history" }

func (h *StatementHistory) BeforeCreate(tx *gorm.DB) (err error) {
	h.Prepare()
	return
}

func (h *StatementHistory) Prepare() {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.ExecutedAt.IsZero() {
		h.ExecutedAt = time.Now()
	}
}
