package repositories

import (
	"context"

	"spherify/models"

	"gorm.io/gorm"
)

type GormTeamConfigRepository struct {
	db *gorm.DB
}

func NewGormTeamConfigRepository(db *gorm.DB) *GormTeamConfigRepository {
	return &GormTeamConfigRepository{db: db}
}

func (r *GormTeamConfigRepository) GetByTeam(_ context.Context, tx *gorm.DB, teamID uint) (models.TeamStorageConfig, error) {
	var cfg models.TeamStorageConfig
	err := useTx(r.db, tx).Where("team_id = ?", teamID).First(&cfg).Error
	return cfg, err
}
