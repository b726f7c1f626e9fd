// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	InvoiceStatusOpen  InvoiceStatus = "OPEN"
	InvoiceStatusPaid  InvoiceStatus = "PAID"
	InvoiceStatusVoid  InvoiceStatus = "VOID"
)

// BillingMode identifies which draft pipeline produced an invoice.
type BillingMode string

const (
	ModeRecurring BillingMode = "recurring"
	ModeEvent     BillingMode = "event"
	ModeHub       BillingMode = "hub"
)

// Invoice represents a generated invoice. Period fields are set for
// recurring-mode invoices only; the unique index keeps one invoice per
// family per period.
type Invoice struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	FamilyID    snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_invoice_family_period" json:"family_id"`
	Mode        BillingMode       `gorm:"type:text;not null" json:"mode"`
	Status      InvoiceStatus     `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	PeriodStart *time.Time        `gorm:"uniqueIndex:ux_invoice_family_period" json:"period_start,omitempty"`
	PeriodEnd   *time.Time        `gorm:"uniqueIndex:ux_invoice_family_period" json:"period_end,omitempty"`
	DueAt       *time.Time        `json:"due_at,omitempty"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"`
	Note        string            `gorm:"type:text" json:"note,omitempty"`
	TotalCents  int64             `gorm:"not null;default:0" json:"total_cents"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// SourceType identifies which billable record produced a line.
type SourceType string

const (
	SourceEnrollment SourceType = "enrollment"
	SourceEventOrder SourceType = "event_order"
	SourceHubSession SourceType = "hub_session"
)

// InvoiceLine represents a line on an invoice.
type InvoiceLine struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	SourceType  SourceType   `gorm:"type:text;not null" json:"source_type"`
	SourceID    snowflake.ID `gorm:"not null;index" json:"source_id"`
	Description string       `gorm:"type:text" json:"description"`
	Quantity    float64      `gorm:"not null" json:"quantity"`
	UnitCents   int64        `gorm:"not null" json:"unit_cents"`
	AmountCents int64        `gorm:"not null" json:"amount_cents"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceLine) TableName() string { return "invoice_lines" }
