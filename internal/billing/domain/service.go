package domain

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SourceFilter narrows which billable sources a draft run considers.
type SourceFilter struct {
	ServiceCode *servicedefdomain.ServiceCode
	TeacherID   *snowflake.ID
}

// DraftRequest drives one preview or submission. Selected nil means "use the
// default selection"; an explicit empty slice is a validation error on
// submission. EligibleCount is the eligible-item count of the preview the
// caller's Selected was made against; the selection sticks only while the
// count is unchanged, otherwise the default selection is recomputed.
type DraftRequest struct {
	Mode           invoicedomain.BillingMode
	Period         *BillingPeriod
	Filter         SourceFilter
	Overrides      map[snowflake.ID]DraftOverride
	AmountEdits    map[snowflake.ID]decimal.Decimal
	GlobalQuantity map[servicedefdomain.ServiceCode]decimal.Decimal
	Selected       []snowflake.ID
	EligibleCount  *int
	SortByTotal    bool
	SortDesc       bool
}

// DraftPreview is the grouped, priced draft before submission.
type DraftPreview struct {
	Mode          invoicedomain.BillingMode `json:"mode"`
	Groups        []DraftGroup              `json:"groups"`
	Duplicates    []snowflake.ID            `json:"duplicate_families,omitempty"`
	Selected      []snowflake.ID            `json:"selected"`
	EligibleCount int                       `json:"eligible_count"`
	Unlinked      int                       `json:"unlinked"`
}

// Service is the draft-generation orchestrator.
type Service interface {
	Preview(ctx context.Context, req DraftRequest) (DraftPreview, error)
	Submit(ctx context.Context, req DraftRequest) (BatchResult, error)
}

// RecordStore is the persistence surface the engine runs against. Listing
// calls return fully hydrated billable sources; creation calls own their
// transaction boundaries.
type RecordStore interface {
	ListBillableEnrollments(ctx context.Context, filter SourceFilter) ([]BillableSource, error)
	ListPendingEventOrders(ctx context.Context) ([]BillableSource, error)
	ListPendingHubSessions(ctx context.Context) ([]BillableSource, error)
	ListInvoicePeriods(ctx context.Context, familyIDs []snowflake.ID) ([]InvoicePeriod, error)

	// CreateInvoiceBatch persists one recurring invoice per family in a
	// single transaction. Any failure rolls back every invoice.
	CreateInvoiceBatch(ctx context.Context, items []PricedItem, period BillingPeriod) ([]CreatedInvoice, error)

	// CreateInvoiceForFamily persists one event- or hub-mode invoice and
	// marks its source records invoiced in the same transaction.
	CreateInvoiceForFamily(ctx context.Context, mode invoicedomain.BillingMode, familyID snowflake.ID, items []PricedItem, dueAt time.Time, note string) (CreatedInvoice, error)
}

// Event topics published after a batch creates at least one invoice, so
// cached list views and dashboard counters refetch.
const (
	TopicInvoicesChanged       = "invoices-changed"
	TopicDashboardStatsChanged = "dashboard-stats-changed"
	TopicRosterStatsChanged    = "roster-stats-changed"
)

// Publisher fans a topic out to registered listeners.
type Publisher interface {
	Publish(topic string)
}

var (
	ErrInvalidMode      = errors.New("invalid_mode")
	ErrMissingPeriod    = errors.New("missing_period")
	ErrInvalidPeriod    = errors.New("invalid_period")
	ErrEmptySelection   = errors.New("empty_selection")
	ErrNegativeOverride = errors.New("negative_override")
	ErrUnknownSelection = errors.New("unknown_selection")
	ErrDuplicateInvoice = errors.New("duplicate_invoice")
	ErrBatchCreation    = errors.New("batch_creation_failed")
)
