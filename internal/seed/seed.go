// Package seed provisions the default records a fresh install needs.
package seed

import (
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// EnsureServiceCatalog inserts the standard service catalog when the table
// is empty. Existing catalogs are left untouched so operator edits survive
// restarts.
func EnsureServiceCatalog(conn *gorm.DB, genID *snowflake.Node) error {
	var count int64
	if err := conn.Model(&servicedefdomain.ServiceDefinition{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []servicedefdomain.ServiceDefinition{
		{
			Code:             servicedefdomain.ServiceCodeHourlyCoaching,
			DisplayName:      "Hourly Coaching",
			BillingFrequency: servicedefdomain.FrequencyWeekly,
			HourlyRateCents:  4500,
		},
		{
			Code:             servicedefdomain.ServiceCodeWeeklyTuition,
			DisplayName:      "Weekly Tuition",
			BillingFrequency: servicedefdomain.FrequencyWeekly,
			WeeklyRateCents:  18000,
		},
		{
			Code:             servicedefdomain.ServiceCodeHubPerSession,
			DisplayName:      "Learning Hub Session",
			BillingFrequency: servicedefdomain.FrequencyPerSession,
			DailyRateCents:   10000,
		},
		{
			Code:             servicedefdomain.ServiceCodePod,
			DisplayName:      "Learning Pod",
			BillingFrequency: servicedefdomain.FrequencyMonthly,
			DailyRateCents:   6000,
		},
		{
			Code:             servicedefdomain.ServiceCodeHomeworkClub,
			DisplayName:      "Homework Club",
			BillingFrequency: servicedefdomain.FrequencyMonthly,
			MonthlyRateCents: 9500,
		},
	}
	for i := range defaults {
		defaults[i].ID = genID.Generate()
		defaults[i].Active = true
	}

	return conn.Create(&defaults).Error
}
