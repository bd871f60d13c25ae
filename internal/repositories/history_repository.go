package repositories

import (
	"plantfriend/internal/models"

	"gorm.io/gorm"
)

const defaultHistoryLimit = 100

// HistoryRepository stores the write statements executed by the panel.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Create(entry *models.StatementHistory) error {
	entry.Prepare()
	return r.db.Create(entry).Error
}

// ListRecent returns the latest entries, newest first
func (r *HistoryRepository) ListRecent(limit int) ([]models.StatementHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	var entries []models.StatementHistory
	err := r.db.Order("executed_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
