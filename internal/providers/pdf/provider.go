package pdf

import (
	"context"
	"io"
)

// Provider renders printable invoice documents.
type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
}

// InvoiceData is the flattened, display-ready view of one invoice.
type InvoiceData struct {
	BusinessName  string
	BusinessEmail string

	InvoiceNumber string
	IssueDate     string
	DueDate       string
	ServicePeriod string

	BillToName  string
	BillToEmail string

	Items []InvoiceItem
	Total string
}

type InvoiceItem struct {
	Description string
	Qty         string
	UnitPrice   string
	Amount      string
}
