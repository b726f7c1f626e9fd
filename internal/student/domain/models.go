package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
)

// Student belongs to one family.
type Student struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	FamilyID   snowflake.ID  `gorm:"not null;index" json:"family_id"`
	Name       string        `gorm:"not null" json:"name"`
	GradeLevel string        `gorm:"type:text" json:"grade_level,omitempty"`
	Status     StudentStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Student) TableName() string { return "students" }
