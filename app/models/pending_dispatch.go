package models

import (
	"time"

	"gorm.io/gorm"
)

// PendingDispatch marks a stored webhook event whose downstream hand-off
// failed. The row is removed once a later hand-off succeeds.
type PendingDispatch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"type:text;not null" json:"event_id"`
	EventKey  string    `gorm:"type:char(64);not null;uniqueIndex:ux_pending_dispatches_event_key" json:"-"`
	Topic     string    `gorm:"type:varchar(64);not null" json:"topic"`
	Attempts  int       `gorm:"not null;default:1" json:"attempts"`
	LastError string    `gorm:"type:text" json:"last_error"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

func (PendingDispatch) TableName() string {
	return "pending_dispatches"
}

func (p *PendingDispatch) BeforeCreate(tx *gorm.DB) error {
	p.EventKey = EventKeyFor(p.EventID)
	return nil
}
