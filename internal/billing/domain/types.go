// Package domain defines the billing draft-generation contract: billable
// sources, priced items, draft groups, and the record-store surface the
// engine runs against.
package domain

import (
	"fmt"
	"time"

	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SourceKind tags the billable source variants.
type SourceKind string

const (
	KindEnrollment SourceKind = "enrollment"
	KindEventOrder SourceKind = "event_order"
	KindHubSession SourceKind = "hub_session"
)

// BillableSource is one record that can generate a charge. Exactly one
// variant's fields are populated, per Kind.
type BillableSource struct {
	Kind       SourceKind   `json:"kind"`
	ID         snowflake.ID `json:"id"`
	FamilyID   snowflake.ID `json:"family_id"` // zero when the purchaser is unlinked
	FamilyName string       `json:"family_name,omitempty"`

	// Enrollment variant.
	ServiceCode  servicedefdomain.ServiceCode      `json:"service_code,omitempty"`
	Frequency    servicedefdomain.BillingFrequency `json:"billing_frequency,omitempty"`
	HourlyRate   decimal.Decimal                   `json:"hourly_rate,omitempty"`
	HoursPerWeek decimal.Decimal                   `json:"hours_per_week,omitempty"`
	WeeklyRate   decimal.Decimal                   `json:"weekly_rate,omitempty"`
	MonthlyRate  decimal.Decimal                   `json:"monthly_rate,omitempty"`
	DailyRate    decimal.Decimal                   `json:"daily_rate,omitempty"`

	// Event-order variant. TotalCharge is authoritative.
	TicketQuantity int64           `json:"ticket_quantity,omitempty"`
	TotalCharge    decimal.Decimal `json:"total_charge,omitempty"`
	EventName      string          `json:"event_name,omitempty"`

	// Hub-session variant reuses DailyRate.
	SessionDate time.Time `json:"session_date,omitempty"`

	Description string `json:"description"`
}

// Linked reports whether the source has an owning family. Unlinked sources
// are never eligible for invoice creation.
func (s BillableSource) Linked() bool {
	return s.FamilyID != 0
}

// PricedItem is a billable source after quantity/unit-price resolution and
// override application. FinalAmount is always Quantity times UnitPrice.
type PricedItem struct {
	Source      BillableSource  `json:"source"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	Overridden  bool            `json:"overridden"`
}

// ID returns the underlying source record ID.
func (p PricedItem) ID() snowflake.ID {
	return p.Source.ID
}

// DraftGroup bundles one family's selected priced items into a prospective
// invoice.
type DraftGroup struct {
	FamilyID           snowflake.ID    `json:"family_id"`
	FamilyName         string          `json:"family_name"`
	Items              []PricedItem    `json:"items"`
	Total              decimal.Decimal `json:"total"`
	HasExistingInvoice bool            `json:"has_existing_invoice"`
}

// BillingPeriod is the date range a recurring invoice covers. Event and hub
// modes bill per discrete booking and carry no period.
type BillingPeriod struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	DueDate time.Time `json:"due_date"`
	Note    string    `json:"note,omitempty"`
}

// DraftOverride is a per-item operator override. Nil fields fall through to
// the global multiplier and then the resolver base.
type DraftOverride struct {
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// InvoicePeriod is the slice of an existing invoice the duplicate detector
// needs.
type InvoicePeriod struct {
	FamilyID    snowflake.ID
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// CreatedInvoice reports one invoice persisted by the record store.
type CreatedInvoice struct {
	InvoiceID  snowflake.ID `json:"invoice_id"`
	FamilyID   snowflake.ID `json:"family_id"`
	TotalCents int64        `json:"total_cents"`
}

// CreationFailure records one family whose invoice-creation call failed.
// The underlying error is preserved verbatim for operator visibility.
type CreationFailure struct {
	FamilyID snowflake.ID `json:"family_id"`
	Reason   string       `json:"reason"`
	Err      error        `json:"-"`
}

// BatchResult is the outcome of one batch submission. Unlinked counts
// sources excluded before any attempt; they are a precondition gap, not
// failures.
type BatchResult struct {
	Mode      invoicedomain.BillingMode `json:"mode"`
	Succeeded []snowflake.ID            `json:"succeeded"`
	Failed    []CreationFailure         `json:"failed"`
	Unlinked  int                       `json:"unlinked"`
	Created   []CreatedInvoice          `json:"created"`
}

// Done reports whether the batch produced at least one invoice. A fully
// failed batch is not complete.
func (r BatchResult) Done() bool {
	return len(r.Succeeded) > 0
}

// Message summarizes the batch for operators. Partial success is always
// reported as counts, never downgraded to a generic outcome.
func (r BatchResult) Message() string {
	switch {
	case len(r.Failed) == 0 && len(r.Succeeded) > 0:
		return fmt.Sprintf("%d invoices created", len(r.Succeeded))
	case len(r.Succeeded) == 0 && len(r.Failed) > 0:
		return fmt.Sprintf("all %d invoice creations failed", len(r.Failed))
	case len(r.Succeeded) > 0 && len(r.Failed) > 0:
		return fmt.Sprintf("%d succeeded, %d failed", len(r.Succeeded), len(r.Failed))
	default:
		return "nothing to invoice"
	}
}

// Outcome labels the batch for metrics.
func (r BatchResult) Outcome() string {
	switch {
	case len(r.Failed) == 0 && len(r.Succeeded) > 0:
		return "success"
	case len(r.Succeeded) > 0:
		return "partial"
	case len(r.Failed) > 0:
		return "failure"
	default:
		return "empty"
	}
}
