package service

import (
	"context"
	"strings"

	"github.com/brightpath/tutordesk/internal/enrollment/domain"
	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	studentdomain "github.com/brightpath/tutordesk/internal/student/domain"
	teacherdomain "github.com/brightpath/tutordesk/internal/teacher/domain"
	"github.com/brightpath/tutordesk/pkg/db/option"
	"github.com/brightpath/tutordesk/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	ServiceSvc servicedefdomain.Service
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	serviceSvc servicedefdomain.Service

	repo        repository.Repository[domain.Enrollment]
	familyRepo  repository.Repository[familydomain.Family]
	studentRepo repository.Repository[studentdomain.Student]
	teacherRepo repository.Repository[teacherdomain.Teacher]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:         p.Log.Named("enrollment.service"),
		genID:       p.GenID,
		serviceSvc:  p.ServiceSvc,
		repo:        repository.ProvideStore[domain.Enrollment](p.DB),
		familyRepo:  repository.ProvideStore[familydomain.Family](p.DB),
		studentRepo: repository.ProvideStore[studentdomain.Student](p.DB),
		teacherRepo: repository.ProvideStore[teacherdomain.Teacher](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEnrollmentRequest) (domain.Enrollment, error) {
	familyID, err := snowflake.ParseString(strings.TrimSpace(req.FamilyID))
	if err != nil {
		return domain.Enrollment{}, domain.ErrInvalidFamily
	}
	family, err := s.familyRepo.FindOne(ctx, &familydomain.Family{ID: familyID})
	if err != nil {
		return domain.Enrollment{}, err
	}
	if family == nil {
		return domain.Enrollment{}, domain.ErrInvalidFamily
	}

	svc, err := s.serviceSvc.GetByID(ctx, req.ServiceID)
	if err != nil {
		return domain.Enrollment{}, domain.ErrInvalidService
	}

	var studentID *snowflake.ID
	if trimmed := strings.TrimSpace(req.StudentID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.Enrollment{}, domain.ErrInvalidStudent
		}
		student, err := s.studentRepo.FindOne(ctx, &studentdomain.Student{ID: parsed})
		if err != nil {
			return domain.Enrollment{}, err
		}
		if student == nil || student.FamilyID != familyID {
			return domain.Enrollment{}, domain.ErrInvalidStudent
		}
		studentID = &parsed
	}

	var teacherID *snowflake.ID
	if trimmed := strings.TrimSpace(req.TeacherID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.Enrollment{}, domain.ErrInvalidTeacher
		}
		teacher, err := s.teacherRepo.FindOne(ctx, &teacherdomain.Teacher{ID: parsed})
		if err != nil {
			return domain.Enrollment{}, err
		}
		if teacher == nil {
			return domain.Enrollment{}, domain.ErrInvalidTeacher
		}
		teacherID = &parsed
	}

	// Enrollment rates default to the catalog rates; callers may pin
	// enrollment-specific values.
	enrollment := domain.Enrollment{
		ID:               s.genID.Generate(),
		FamilyID:         familyID,
		StudentID:        studentID,
		TeacherID:        teacherID,
		ServiceID:        svc.ID,
		ServiceCode:      svc.Code,
		BillingFrequency: svc.BillingFrequency,
		HourlyRateCents:  svc.HourlyRateCents,
		WeeklyRateCents:  svc.WeeklyRateCents,
		MonthlyRateCents: svc.MonthlyRateCents,
		DailyRateCents:   svc.DailyRateCents,
		Status:           domain.EnrollmentStatusActive,
		Notes:            req.Notes,
	}
	for field, value := range map[*int64]*int64{
		&enrollment.HourlyRateCents:  req.HourlyRateCents,
		&enrollment.WeeklyRateCents:  req.WeeklyRateCents,
		&enrollment.MonthlyRateCents: req.MonthlyRateCents,
		&enrollment.DailyRateCents:   req.DailyRateCents,
	} {
		if value == nil {
			continue
		}
		if *value < 0 {
			return domain.Enrollment{}, domain.ErrInvalidRate
		}
		*field = *value
	}
	if req.HoursPerWeek != nil {
		if *req.HoursPerWeek < 0 {
			return domain.Enrollment{}, domain.ErrInvalidRate
		}
		enrollment.HoursPerWeek = *req.HoursPerWeek
	}

	if err := s.repo.Create(ctx, &enrollment); err != nil {
		return domain.Enrollment{}, err
	}
	return enrollment, nil
}

func (s *Service) List(ctx context.Context, req domain.ListEnrollmentRequest) (domain.ListEnrollmentResponse, error) {
	filter := &domain.Enrollment{}
	if trimmed := strings.TrimSpace(req.FamilyID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListEnrollmentResponse{}, domain.ErrInvalidFamily
		}
		filter.FamilyID = parsed
	}
	if req.ServiceCode != "" {
		filter.ServiceCode = req.ServiceCode
	}
	if req.Status != nil {
		filter.Status = *req.Status
	}

	options := []option.QueryOption{option.WithQuerySortBy("created_at", false)}
	if trimmed := strings.TrimSpace(req.TeacherID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListEnrollmentResponse{}, domain.ErrInvalidTeacher
		}
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "teacher_id",
			Operator: option.EQ,
			Value:    parsed,
		}))
	}

	items, err := s.repo.Find(ctx, filter, options...)
	if err != nil {
		return domain.ListEnrollmentResponse{}, err
	}

	enrollments := make([]domain.Enrollment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		enrollments = append(enrollments, *item)
	}

	return domain.ListEnrollmentResponse{Enrollments: enrollments}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Enrollment, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Enrollment{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.Enrollment{ID: parsed})
	if err != nil {
		return domain.Enrollment{}, err
	}
	if item == nil {
		return domain.Enrollment{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateEnrollmentRequest) (domain.Enrollment, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Enrollment{}, err
	}

	updates := map[string]any{}
	if req.TeacherID != nil {
		if trimmed := strings.TrimSpace(*req.TeacherID); trimmed != "" {
			parsed, err := snowflake.ParseString(trimmed)
			if err != nil {
				return domain.Enrollment{}, domain.ErrInvalidTeacher
			}
			teacher, err := s.teacherRepo.FindOne(ctx, &teacherdomain.Teacher{ID: parsed})
			if err != nil {
				return domain.Enrollment{}, err
			}
			if teacher == nil {
				return domain.Enrollment{}, domain.ErrInvalidTeacher
			}
			updates["teacher_id"] = parsed
		} else {
			updates["teacher_id"] = nil
		}
	}
	for field, value := range map[string]*int64{
		"hourly_rate_cents":  req.HourlyRateCents,
		"weekly_rate_cents":  req.WeeklyRateCents,
		"monthly_rate_cents": req.MonthlyRateCents,
		"daily_rate_cents":   req.DailyRateCents,
	} {
		if value == nil {
			continue
		}
		if *value < 0 {
			return domain.Enrollment{}, domain.ErrInvalidRate
		}
		updates[field] = *value
	}
	if req.HoursPerWeek != nil {
		if *req.HoursPerWeek < 0 {
			return domain.Enrollment{}, domain.ErrInvalidRate
		}
		updates["hours_per_week"] = *req.HoursPerWeek
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.EnrollmentStatusActive, domain.EnrollmentStatusPaused, domain.EnrollmentStatusEnded:
		default:
			return domain.Enrollment{}, domain.ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, existing.ID.String(), updates); err != nil {
		return domain.Enrollment{}, err
	}
	return s.GetByID(ctx, req.ID)
}
