package models

import "time"

const (
	StorageTypeInfinity = "infinity"
	StorageTypeLimited  = "limited"
)

// TeamStorageConfig is written by the admin surface and read-only here.
type TeamStorageConfig struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TeamID      uint      `gorm:"uniqueIndex;not null" json:"team_id"`
	StorageType string    `gorm:"type:varchar(10);not null;default:limited" json:"storage_type"`
	MaxSizeGB   int64     `gorm:"not null;default:0" json:"max_size_gb"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
