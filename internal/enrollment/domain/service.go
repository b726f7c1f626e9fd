package domain

import (
	"context"
	"errors"

	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
)

type ListEnrollmentRequest struct {
	FamilyID    string
	TeacherID   string
	ServiceCode servicedefdomain.ServiceCode
	Status      *EnrollmentStatus
}

type ListEnrollmentResponse struct {
	Enrollments []Enrollment `json:"enrollments"`
}

type CreateEnrollmentRequest struct {
	FamilyID         string
	StudentID        string
	TeacherID        string
	ServiceID        string
	HourlyRateCents  *int64
	HoursPerWeek     *float64
	WeeklyRateCents  *int64
	MonthlyRateCents *int64
	DailyRateCents   *int64
	Notes            string
}

type UpdateEnrollmentRequest struct {
	ID               string
	TeacherID        *string
	HourlyRateCents  *int64
	HoursPerWeek     *float64
	WeeklyRateCents  *int64
	MonthlyRateCents *int64
	DailyRateCents   *int64
	Status           *EnrollmentStatus
	Notes            *string
}

type Service interface {
	Create(context.Context, CreateEnrollmentRequest) (Enrollment, error)
	List(context.Context, ListEnrollmentRequest) (ListEnrollmentResponse, error)
	GetByID(ctx context.Context, id string) (Enrollment, error)
	Update(context.Context, UpdateEnrollmentRequest) (Enrollment, error)
}

var (
	ErrInvalidFamily  = errors.New("invalid_family")
	ErrInvalidStudent = errors.New("invalid_student")
	ErrInvalidTeacher = errors.New("invalid_teacher")
	ErrInvalidService = errors.New("invalid_service")
	ErrInvalidRate    = errors.New("invalid_rate")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
