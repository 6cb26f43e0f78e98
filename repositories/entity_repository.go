package repositories

import (
	"context"
	"time"

	"spherify/models"

	"gorm.io/gorm"
)

type GormEntityRepository struct {
	db *gorm.DB
}

func NewGormEntityRepository(db *gorm.DB) *GormEntityRepository {
	return &GormEntityRepository{db: db}
}

// childOrder keeps listing stable: folders before files, then by name.
const childOrder = "CASE WHEN type = 'folder' THEN 0 ELSE 1 END, name ASC"

func (r *GormEntityRepository) GetByIDAndTeam(_ context.Context, tx *gorm.DB, entityID uint, teamID uint) (models.Entity, error) {
	var entity models.Entity
	err := useTx(r.db, tx).Where("id = ? AND team_id = ?", entityID, teamID).First(&entity).Error
	return entity, err
}

func (r *GormEntityRepository) GetByIDAndTeamUnscoped(_ context.Context, tx *gorm.DB, entityID uint, teamID uint) (models.Entity, error) {
	var entity models.Entity
	err := useTx(r.db, tx).Unscoped().Where("id = ? AND team_id = ?", entityID, teamID).First(&entity).Error
	return entity, err
}

func (r *GormEntityRepository) GetRootByTeam(_ context.Context, tx *gorm.DB, teamID uint) (models.Entity, error) {
	var entity models.Entity
	err := useTx(r.db, tx).Where("team_id = ? AND is_root = 1", teamID).First(&entity).Error
	return entity, err
}

func (r *GormEntityRepository) ListRoots(_ context.Context, tx *gorm.DB) ([]models.Entity, error) {
	var roots []models.Entity
	err := useTx(r.db, tx).Where("is_root = 1").Find(&roots).Error
	return roots, err
}

func (r *GormEntityRepository) GetChildByName(_ context.Context, tx *gorm.DB, teamID uint, parentID uint, name string) (models.Entity, error) {
	var entity models.Entity
	err := useTx(r.db, tx).
		Where("team_id = ? AND parent_id = ? AND name = ?", teamID, parentID, name).
		First(&entity).Error
	return entity, err
}

func (r *GormEntityRepository) ListChildren(_ context.Context, tx *gorm.DB, teamID uint, parentID uint) ([]models.Entity, error) {
	var entities []models.Entity
	err := useTx(r.db, tx).
		Where("team_id = ? AND parent_id = ?", teamID, parentID).
		Order(childOrder).
		Find(&entities).Error
	return entities, err
}

func (r *GormEntityRepository) CountByParentAndName(_ context.Context, tx *gorm.DB, teamID uint, parentID uint, name string, excludeID uint) (int64, error) {
	db := useTx(r.db, tx).Model(&models.Entity{}).
		Where("team_id = ? AND parent_id = ? AND name = ?", teamID, parentID, name)
	if excludeID > 0 {
		db = db.Where("id <> ?", excludeID)
	}
	var count int64
	err := db.Count(&count).Error
	return count, err
}

func (r *GormEntityRepository) Create(_ context.Context, tx *gorm.DB, entity *models.Entity) error {
	return useTx(r.db, tx).Create(entity).Error
}

func (r *GormEntityRepository) UpdateByID(_ context.Context, tx *gorm.DB, entityID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Entity{}).Where("id = ?", entityID).Updates(updates).Error
}

func (r *GormEntityRepository) UpdateByIDUnscoped(_ context.Context, tx *gorm.DB, entityID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Unscoped().Model(&models.Entity{}).Where("id = ?", entityID).Updates(updates).Error
}

func (r *GormEntityRepository) ListByPathPrefix(_ context.Context, tx *gorm.DB, teamID uint, rootID uint, rootPath string, unscoped bool) ([]models.Entity, error) {
	db := useTx(r.db, tx)
	if unscoped {
		db = db.Unscoped()
	}

	var entities []models.Entity
	err := db.Where("team_id = ? AND (id = ? OR path LIKE ?)", teamID, rootID, rootPath+"/%").Find(&entities).Error
	return entities, err
}

func (r *GormEntityRepository) PluckIDsByPathPrefix(_ context.Context, tx *gorm.DB, teamID uint, rootID uint, rootPath string) ([]uint, error) {
	var ids []uint
	err := useTx(r.db, tx).Unscoped().Model(&models.Entity{}).
		Where("team_id = ? AND (id = ? OR path LIKE ?)", teamID, rootID, rootPath+"/%").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *GormEntityRepository) SoftDeleteByID(_ context.Context, tx *gorm.DB, entityID uint) error {
	return useTx(r.db, tx).Where("id = ?", entityID).Delete(&models.Entity{}).Error
}

func (r *GormEntityRepository) UnscopedDeleteByIDs(_ context.Context, tx *gorm.DB, entityIDs []uint) error {
	if len(entityIDs) == 0 {
		return nil
	}
	return useTx(r.db, tx).Unscoped().Where("id IN ?", entityIDs).Delete(&models.Entity{}).Error
}

// ListTrashedTopLevel returns trashed entities whose parent is still live.
// Entities trashed underneath an already-trashed folder are hidden so the
// trash view never shows redundant nested entries.
func (r *GormEntityRepository) ListTrashedTopLevel(_ context.Context, tx *gorm.DB, teamID uint) ([]models.Entity, error) {
	var entities []models.Entity
	err := useTx(r.db, tx).Unscoped().Model(&models.Entity{}).
		Select("entities.*").
		Joins("LEFT JOIN entities parent ON parent.id = entities.parent_id").
		Where("entities.team_id = ? AND entities.deleted_at IS NOT NULL", teamID).
		Where("entities.parent_id IS NULL OR parent.deleted_at IS NULL").
		Order("entities.deleted_at DESC").
		Find(&entities).Error
	return entities, err
}

func (r *GormEntityRepository) SumFileSizesByTeam(_ context.Context, tx *gorm.DB, teamID uint, unscoped bool) (int64, error) {
	db := useTx(r.db, tx)
	if unscoped {
		db = db.Unscoped()
	}

	var total int64
	err := db.Model(&models.Entity{}).
		Where("team_id = ? AND type = ?", teamID, models.EntityTypeFile).
		Select("COALESCE(SUM(size), 0)").
		Scan(&total).Error
	return total, err
}

func (r *GormEntityRepository) ListTrashedBefore(_ context.Context, tx *gorm.DB, cutoff time.Time) ([]models.Entity, error) {
	var entities []models.Entity
	err := useTx(r.db, tx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&entities).Error
	return entities, err
}
