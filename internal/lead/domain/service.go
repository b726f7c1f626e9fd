package domain

import (
	"context"
	"errors"
)

type ListLeadRequest struct {
	Status *LeadStatus
}

type ListLeadResponse struct {
	Leads []Lead `json:"leads"`
}

type CreateLeadRequest struct {
	ContactName string
	Email       string
	Source      string
	Notes       string
}

type UpdateLeadRequest struct {
	ID     string
	Status *LeadStatus
	Notes  *string
}

type Service interface {
	Create(context.Context, CreateLeadRequest) (Lead, error)
	List(context.Context, ListLeadRequest) (ListLeadResponse, error)
	GetByID(ctx context.Context, id string) (Lead, error)
	Update(context.Context, UpdateLeadRequest) (Lead, error)
	// Convert marks the lead converted and links the family created from it.
	Convert(ctx context.Context, id, familyID string) (Lead, error)
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidFamily    = errors.New("invalid_family")
	ErrAlreadyConverted = errors.New("already_converted")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
)
