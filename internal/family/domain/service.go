package domain

import (
	"context"
	"errors"
	"time"

	"github.com/brightpath/tutordesk/pkg/db/pagination"
)

type ListFamilyRequest struct {
	PageToken   string
	PageSize    int32
	Name        string
	Email       string
	Status      *FamilyStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListFamilyResponse struct {
	pagination.PageInfo
	Families []Family `json:"families"`
}

type CreateFamilyRequest struct {
	DisplayName string
	ContactName string
	Email       string
	Phone       string
	Notes       string
}

type UpdateFamilyRequest struct {
	ID          string
	DisplayName *string
	ContactName *string
	Email       *string
	Phone       *string
	Status      *FamilyStatus
	Notes       *string
}

type Service interface {
	Create(context.Context, CreateFamilyRequest) (Family, error)
	List(context.Context, ListFamilyRequest) (ListFamilyResponse, error)
	GetByID(ctx context.Context, id string) (Family, error)
	Update(context.Context, UpdateFamilyRequest) (Family, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
