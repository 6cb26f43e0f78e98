package models

import "time"

const (
	ActionCreated  = "created"
	ActionRenamed  = "renamed"
	ActionMoved    = "moved"
	ActionEdited   = "edited"
	ActionDeleted  = "deleted"
	ActionRestored = "restored"
)

// HistoryEntry is an append-only audit record. Every mutating operation
// writes exactly one entry for the affected entity; descendants of a moved
// folder inherit the new path without entries of their own.
type HistoryEntry struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityID    uint      `gorm:"not null;index" json:"entity_id"`
	Action      string    `gorm:"type:varchar(20);not null;index" json:"action"`
	PerformedBy uint      `gorm:"not null" json:"performed_by"`
	Details     string    `gorm:"type:json" json:"details"`
	CreatedAt   time.Time `gorm:"index;autoCreateTime" json:"created_at"`
}
