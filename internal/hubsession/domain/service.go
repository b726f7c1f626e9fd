package domain

import (
	"context"
	"errors"
	"time"
)

type ListHubSessionRequest struct {
	PendingOnly bool
	FamilyID    string
	From        *time.Time
	To          *time.Time
}

type ListHubSessionResponse struct {
	Sessions []HubSession `json:"sessions"`
}

type CreateHubSessionRequest struct {
	FamilyID       string
	StudentName    string
	SessionDate    time.Time
	DailyRateCents *int64
}

type Service interface {
	Create(context.Context, CreateHubSessionRequest) (HubSession, error)
	List(context.Context, ListHubSessionRequest) (ListHubSessionResponse, error)
	GetByID(ctx context.Context, id string) (HubSession, error)
	// LinkFamily attaches a walk-in session to a family, making it eligible
	// for invoicing.
	LinkFamily(ctx context.Context, id, familyID string) (HubSession, error)
}

var (
	ErrInvalidStudent  = errors.New("invalid_student")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrInvalidRate     = errors.New("invalid_rate")
	ErrInvalidFamily   = errors.New("invalid_family")
	ErrAlreadyInvoiced = errors.New("already_invoiced")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
