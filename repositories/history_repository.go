package repositories

import (
	"context"

	"spherify/models"

	"gorm.io/gorm"
)

type GormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) Append(_ context.Context, tx *gorm.DB, entry *models.HistoryEntry) error {
	return useTx(r.db, tx).Create(entry).Error
}

func (r *GormHistoryRepository) ListByEntity(_ context.Context, tx *gorm.DB, entityID uint) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := useTx(r.db, tx).
		Where("entity_id = ?", entityID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *GormHistoryRepository) DeleteByEntityIDs(_ context.Context, tx *gorm.DB, entityIDs []uint) error {
	if len(entityIDs) == 0 {
		return nil
	}
	return useTx(r.db, tx).Where("entity_id IN ?", entityIDs).Delete(&models.HistoryEntry{}).Error
}
