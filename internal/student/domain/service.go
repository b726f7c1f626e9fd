package domain

import (
	"context"
	"errors"
)

type ListStudentRequest struct {
	FamilyID string
	Status   *StudentStatus
}

type ListStudentResponse struct {
	Students []Student `json:"students"`
}

type CreateStudentRequest struct {
	FamilyID   string
	Name       string
	GradeLevel string
}

type UpdateStudentRequest struct {
	ID         string
	Name       *string
	GradeLevel *string
	Status     *StudentStatus
}

type Service interface {
	Create(context.Context, CreateStudentRequest) (Student, error)
	List(context.Context, ListStudentRequest) (ListStudentResponse, error)
	GetByID(ctx context.Context, id string) (Student, error)
	Update(context.Context, UpdateStudentRequest) (Student, error)
}

var (
	ErrInvalidFamily = errors.New("invalid_family")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
