package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EntityTypeFile   = "file"
	EntityTypeFolder = "folder"
)

// Entity is one node of a team's virtual filesystem. Path is the
// team-relative logical path ("/" for the team root); RemoteKey is the
// node's address in the remote object store, stored explicitly so renames
// never race against key recomputation.
type Entity struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	TeamID    uint           `gorm:"not null;index:idx_team_parent" json:"team_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Type      string         `gorm:"type:varchar(10);not null;index" json:"type"`
	ParentID  *uint          `gorm:"index:idx_team_parent" json:"parent_id"`
	Path      string         `gorm:"type:varchar(1000);not null" json:"path"`
	RemoteKey string         `gorm:"type:varchar(1000);not null" json:"remote_key"`
	Size      int64          `gorm:"default:0" json:"size"`
	OwnerID   uint           `gorm:"not null;index" json:"owner_id"`
	CreatedBy uint           `gorm:"not null" json:"created_by"`
	IsRoot    *bool          `gorm:"index" json:"is_root,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (e *Entity) IsFolder() bool {
	return e.Type == EntityTypeFolder
}
