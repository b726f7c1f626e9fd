// Package draft holds the pure draft-generation pipeline: pricing
// resolution, override application, duplicate detection, and grouping.
// Nothing here touches storage; the service layer feeds it records and
// persists what it returns.
package draft

import (
	"github.com/brightpath/tutordesk/internal/billing/domain"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/shopspring/decimal"
)

// defaultHubSessionRate applies when a per-session enrollment carries no
// daily rate of its own.
var defaultHubSessionRate = decimal.NewFromInt(100)

// Resolve derives the base quantity and unit price for one billable source.
// Service-code rules win over billing-frequency rules; unknown codes fall
// through to the monthly rate.
func Resolve(src domain.BillableSource) (quantity, unitPrice decimal.Decimal) {
	switch src.Kind {
	case domain.KindEventOrder:
		quantity = decimal.NewFromInt(src.TicketQuantity)
		if !quantity.IsPositive() {
			// Defensive floor; order validation keeps quantity >= 1.
			return decimal.NewFromInt(1), src.TotalCharge
		}
		// The captured charge is authoritative; the unit price is derived.
		return quantity, src.TotalCharge.Div(quantity).Round(2)

	case domain.KindHubSession:
		return decimal.NewFromInt(1), src.DailyRate

	default:
		return resolveEnrollment(src)
	}
}

func resolveEnrollment(src domain.BillableSource) (decimal.Decimal, decimal.Decimal) {
	one := decimal.NewFromInt(1)
	switch {
	case src.ServiceCode == servicedefdomain.ServiceCodeHourlyCoaching:
		return src.HoursPerWeek, src.HourlyRate
	case src.ServiceCode == servicedefdomain.ServiceCodeWeeklyTuition,
		src.Frequency == servicedefdomain.FrequencyWeekly:
		return one, src.WeeklyRate
	case src.ServiceCode == servicedefdomain.ServiceCodeHubPerSession,
		src.Frequency == servicedefdomain.FrequencyPerSession:
		rate := src.DailyRate
		if rate.IsZero() {
			rate = defaultHubSessionRate
		}
		return one, rate
	case src.ServiceCode == servicedefdomain.ServiceCodePod:
		return one, src.DailyRate
	default:
		return one, src.MonthlyRate
	}
}

// CentsToDecimal converts stored minor units to engine money.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// DecimalToCents converts engine money back to minor units for persistence,
// rounding half away from zero at the cent.
func DecimalToCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}
