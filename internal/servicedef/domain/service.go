package domain

import (
	"context"
	"errors"
)

type ListServiceRequest struct {
	ActiveOnly bool
}

type ListServiceResponse struct {
	Services []ServiceDefinition `json:"services"`
}

type CreateServiceRequest struct {
	Code             ServiceCode
	DisplayName      string
	BillingFrequency BillingFrequency
	HourlyRateCents  int64
	WeeklyRateCents  int64
	MonthlyRateCents int64
	DailyRateCents   int64
}

type UpdateServiceRequest struct {
	ID               string
	DisplayName      *string
	BillingFrequency *BillingFrequency
	HourlyRateCents  *int64
	WeeklyRateCents  *int64
	MonthlyRateCents *int64
	DailyRateCents   *int64
	Active           *bool
}

type Service interface {
	List(context.Context, ListServiceRequest) (ListServiceResponse, error)
	GetByID(ctx context.Context, id string) (ServiceDefinition, error)
	GetByCode(ctx context.Context, code ServiceCode) (ServiceDefinition, error)
	Create(context.Context, CreateServiceRequest) (ServiceDefinition, error)
	Update(context.Context, UpdateServiceRequest) (ServiceDefinition, error)
}

var (
	ErrInvalidCode      = errors.New("invalid_code")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidFrequency = errors.New("invalid_frequency")
	ErrInvalidRate      = errors.New("invalid_rate")
	ErrInvalidID        = errors.New("invalid_id")
	ErrDuplicateCode    = errors.New("duplicate_code")
	ErrNotFound         = errors.New("not_found")
)
