// Package domain contains the tutoring service catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ServiceCode identifies how a service is priced. Codes outside this set are
// legal catalog entries and bill at the monthly rate.
type ServiceCode string

const (
	// ServiceCodeHourlyCoaching bills hours-per-week at an hourly rate.
	ServiceCodeHourlyCoaching ServiceCode = "hourly_coaching"
	// ServiceCodeWeeklyTuition bills a flat weekly tuition.
	ServiceCodeWeeklyTuition ServiceCode = "weekly_tuition"
	// ServiceCodeHubPerSession bills a daily rate per attended session.
	ServiceCodeHubPerSession ServiceCode = "hub_per_session"
	// ServiceCodePod bills a daily rate on a monthly cadence.
	ServiceCodePod ServiceCode = "pod"
	// ServiceCodeHomeworkClub is a monthly-billed catalog entry.
	ServiceCodeHomeworkClub ServiceCode = "homework_club"
)

// BillingFrequency is the cadence a service bills on.
type BillingFrequency string

const (
	FrequencyWeekly     BillingFrequency = "weekly"
	FrequencyMonthly    BillingFrequency = "monthly"
	FrequencyPerSession BillingFrequency = "per_session"
)

// ServiceDefinition is one catalog entry with its default rates in minor units.
type ServiceDefinition struct {
	ID               snowflake.ID     `gorm:"primaryKey" json:"id"`
	Code             ServiceCode      `gorm:"type:text;not null;uniqueIndex" json:"code"`
	DisplayName      string           `gorm:"not null" json:"display_name"`
	BillingFrequency BillingFrequency `gorm:"type:text;not null" json:"billing_frequency"`
	HourlyRateCents  int64            `gorm:"not null;default:0" json:"hourly_rate_cents"`
	WeeklyRateCents  int64            `gorm:"not null;default:0" json:"weekly_rate_cents"`
	MonthlyRateCents int64            `gorm:"not null;default:0" json:"monthly_rate_cents"`
	DailyRateCents   int64            `gorm:"not null;default:0" json:"daily_rate_cents"`
	Active           bool             `gorm:"not null;default:true" json:"active"`
	CreatedAt        time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ServiceDefinition) TableName() string { return "service_definitions" }
