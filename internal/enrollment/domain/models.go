// Package domain contains enrollment records, the recurring billable source.
package domain

import (
	"time"

	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/bwmarrin/snowflake"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive EnrollmentStatus = "active"
	EnrollmentStatusPaused EnrollmentStatus = "paused"
	EnrollmentStatusEnded  EnrollmentStatus = "ended"
)

// Enrollment ties a family (and optionally a student and teacher) to a
// service. Rate fields are enrollment-specific; exactly one set is active
// per service code, the rest stay zero.
type Enrollment struct {
	ID               snowflake.ID                      `gorm:"primaryKey" json:"id"`
	FamilyID         snowflake.ID                      `gorm:"not null;index" json:"family_id"`
	StudentID        *snowflake.ID                     `gorm:"index" json:"student_id,omitempty"`
	TeacherID        *snowflake.ID                     `gorm:"index" json:"teacher_id,omitempty"`
	ServiceID        snowflake.ID                      `gorm:"not null;index" json:"service_id"`
	ServiceCode      servicedefdomain.ServiceCode      `gorm:"type:text;not null;index" json:"service_code"`
	BillingFrequency servicedefdomain.BillingFrequency `gorm:"type:text;not null" json:"billing_frequency"`
	HourlyRateCents  int64                             `gorm:"not null;default:0" json:"hourly_rate_cents"`
	HoursPerWeek     float64                           `gorm:"not null;default:0" json:"hours_per_week"`
	WeeklyRateCents  int64                             `gorm:"not null;default:0" json:"weekly_rate_cents"`
	MonthlyRateCents int64                             `gorm:"not null;default:0" json:"monthly_rate_cents"`
	DailyRateCents   int64                             `gorm:"not null;default:0" json:"daily_rate_cents"`
	Status           EnrollmentStatus                  `gorm:"type:text;not null;default:'active';index" json:"status"`
	StartedAt        *time.Time                        `json:"started_at,omitempty"`
	EndedAt          *time.Time                        `json:"ended_at,omitempty"`
	Notes            string                            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time                         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time                         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Enrollment) TableName() string { return "enrollments" }
