package domain

import (
	"context"
	"errors"
)

type ListEventOrderRequest struct {
	PendingOnly bool
	FamilyID    string
}

type ListEventOrderResponse struct {
	Orders []EventOrder `json:"orders"`
}

type CreateEventOrderRequest struct {
	PurchaserName  string
	PurchaserEmail string
	EventName      string
	TicketQuantity int64
	TotalCents     int64
	FamilyID       string
}

type Service interface {
	Create(context.Context, CreateEventOrderRequest) (EventOrder, error)
	List(context.Context, ListEventOrderRequest) (ListEventOrderResponse, error)
	GetByID(ctx context.Context, id string) (EventOrder, error)
	// LinkFamily attaches an unlinked purchaser to a family, making the
	// order eligible for invoicing.
	LinkFamily(ctx context.Context, id, familyID string) (EventOrder, error)
}

var (
	ErrInvalidPurchaser = errors.New("invalid_purchaser")
	ErrInvalidEvent     = errors.New("invalid_event")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidTotal     = errors.New("invalid_total")
	ErrInvalidFamily    = errors.New("invalid_family")
	ErrAlreadyInvoiced  = errors.New("already_invoiced")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
)
