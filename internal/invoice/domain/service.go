package domain

import (
	"context"
	"errors"
	"time"
)

type ListInvoiceRequest struct {
	FamilyID string
	Status   *InvoiceStatus
	Mode     *BillingMode
	DueFrom  *time.Time
	DueTo    *time.Time
}

type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type InvoiceDetail struct {
	Invoice Invoice       `json:"invoice"`
	Lines   []InvoiceLine `json:"lines"`
}

type Service interface {
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (InvoiceDetail, error)
	MarkPaid(ctx context.Context, id string) (Invoice, error)
	Void(ctx context.Context, id string) (Invoice, error)
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidFamily = errors.New("invalid_family")
	ErrNotFound      = errors.New("not_found")
	ErrAlreadyPaid   = errors.New("already_paid")
	ErrAlreadyVoided = errors.New("already_voided")
)
