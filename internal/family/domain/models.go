package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// FamilyStatus represents family account states.
type FamilyStatus string

const (
	FamilyStatusActive   FamilyStatus = "active"
	FamilyStatusInactive FamilyStatus = "inactive"
)

// Family is the owning customer for students, enrollments, and invoices.
type Family struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	DisplayName string            `gorm:"not null;index" json:"display_name"`
	ContactName string            `gorm:"not null" json:"contact_name"`
	Email       string            `gorm:"not null" json:"email"`
	Phone       string            `gorm:"type:text" json:"phone,omitempty"`
	Status      FamilyStatus      `gorm:"type:text;not null;default:'active'" json:"status"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Family) TableName() string { return "families" }
