// Package domain contains learning-hub session bookings.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// HubSession is one day of learning-hub attendance. Walk-ins may be recorded
// before the family is known; unlinked sessions cannot be invoiced.
type HubSession struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	FamilyID       *snowflake.ID `gorm:"index" json:"family_id,omitempty"`
	StudentName    string        `gorm:"not null" json:"student_name"`
	SessionDate    time.Time     `gorm:"not null;index" json:"session_date"`
	DailyRateCents int64         `gorm:"not null" json:"daily_rate_cents"`
	Invoiced       bool          `gorm:"not null;default:false;index" json:"invoiced"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (HubSession) TableName() string { return "hub_sessions" }
