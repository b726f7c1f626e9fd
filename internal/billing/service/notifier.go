package service

import (
	"context"

	"github.com/brightpath/tutordesk/internal/billing/domain"
)

// Notifier dispatches family-facing messages after an invoice lands.
// Delivery failures are logged and never unwind a completed batch.
type Notifier interface {
	InvoiceCreated(ctx context.Context, created domain.CreatedInvoice) error
}
