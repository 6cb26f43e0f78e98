package repositories

import (
	"context"
	"time"

	"spherify/models"

	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type EntityRepository interface {
	GetByIDAndTeam(ctx context.Context, tx *gorm.DB, entityID uint, teamID uint) (models.Entity, error)
	GetByIDAndTeamUnscoped(ctx context.Context, tx *gorm.DB, entityID uint, teamID uint) (models.Entity, error)
	GetRootByTeam(ctx context.Context, tx *gorm.DB, teamID uint) (models.Entity, error)
	ListRoots(ctx context.Context, tx *gorm.DB) ([]models.Entity, error)
	GetChildByName(ctx context.Context, tx *gorm.DB, teamID uint, parentID uint, name string) (models.Entity, error)
	ListChildren(ctx context.Context, tx *gorm.DB, teamID uint, parentID uint) ([]models.Entity, error)
	CountByParentAndName(ctx context.Context, tx *gorm.DB, teamID uint, parentID uint, name string, excludeID uint) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, entity *models.Entity) error
	UpdateByID(ctx context.Context, tx *gorm.DB, entityID uint, updates map[string]interface{}) error
	UpdateByIDUnscoped(ctx context.Context, tx *gorm.DB, entityID uint, updates map[string]interface{}) error
	ListByPathPrefix(ctx context.Context, tx *gorm.DB, teamID uint, rootID uint, rootPath string, unscoped bool) ([]models.Entity, error)
	PluckIDsByPathPrefix(ctx context.Context, tx *gorm.DB, teamID uint, rootID uint, rootPath string) ([]uint, error)
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, entityID uint) error
	UnscopedDeleteByIDs(ctx context.Context, tx *gorm.DB, entityIDs []uint) error
	ListTrashedTopLevel(ctx context.Context, tx *gorm.DB, teamID uint) ([]models.Entity, error)
	ListTrashedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]models.Entity, error)
	// SumFileSizesByTeam totals file row sizes for a team. Unscoped includes
	// trashed rows, whose bytes are still on the remote.
	SumFileSizesByTeam(ctx context.Context, tx *gorm.DB, teamID uint, unscoped bool) (int64, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, tx *gorm.DB, entry *models.HistoryEntry) error
	ListByEntity(ctx context.Context, tx *gorm.DB, entityID uint) ([]models.HistoryEntry, error)
	DeleteByEntityIDs(ctx context.Context, tx *gorm.DB, entityIDs []uint) error
}

type TeamConfigRepository interface {
	GetByTeam(ctx context.Context, tx *gorm.DB, teamID uint) (models.TeamStorageConfig, error)
}

// UsageCache holds per-team live byte usage as a pure optimization.
// A miss or a redis failure always falls back to metadata aggregation.
type UsageCache interface {
	Get(ctx context.Context, teamID uint) (int64, bool, error)
	Set(ctx context.Context, teamID uint, usage int64, ttlSeconds int) error
	Invalidate(ctx context.Context, teamID uint) error
}

type Container struct {
	TxManager   TxManager
	Entities    EntityRepository
	History     HistoryRepository
	TeamConfigs TeamConfigRepository
	UsageCache  UsageCache
}
