package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "active"
	TeacherStatusInactive TeacherStatus = "inactive"
)

// Teacher is an instructor assignable to enrollments.
type Teacher struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"not null" json:"name"`
	Email     string        `gorm:"not null" json:"email"`
	Subjects  string        `gorm:"type:text" json:"subjects,omitempty"`
	Status    TeacherStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Teacher) TableName() string { return "teachers" }
