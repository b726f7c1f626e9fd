package domain

import (
	"context"
	"errors"
)

type ListTeacherRequest struct {
	Status *TeacherStatus
}

type ListTeacherResponse struct {
	Teachers []Teacher `json:"teachers"`
}

type CreateTeacherRequest struct {
	Name     string
	Email    string
	Subjects string
}

type Service interface {
	Create(context.Context, CreateTeacherRequest) (Teacher, error)
	List(context.Context, ListTeacherRequest) (ListTeacherResponse, error)
	GetByID(ctx context.Context, id string) (Teacher, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
