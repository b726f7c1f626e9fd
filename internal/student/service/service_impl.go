package service

import (
	"context"
	"strings"

	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	"github.com/brightpath/tutordesk/internal/student/domain"
	"github.com/brightpath/tutordesk/pkg/db/option"
	"github.com/brightpath/tutordesk/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	repo       repository.Repository[domain.Student]
	familyRepo repository.Repository[familydomain.Family]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:        p.Log.Named("student.service"),
		genID:      p.GenID,
		repo:       repository.ProvideStore[domain.Student](p.DB),
		familyRepo: repository.ProvideStore[familydomain.Family](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateStudentRequest) (domain.Student, error) {
	familyID, err := snowflake.ParseString(strings.TrimSpace(req.FamilyID))
	if err != nil {
		return domain.Student{}, domain.ErrInvalidFamily
	}
	if strings.TrimSpace(req.Name) == "" {
		return domain.Student{}, domain.ErrInvalidName
	}

	family, err := s.familyRepo.FindOne(ctx, &familydomain.Family{ID: familyID})
	if err != nil {
		return domain.Student{}, err
	}
	if family == nil {
		return domain.Student{}, domain.ErrInvalidFamily
	}

	student := domain.Student{
		ID:         s.genID.Generate(),
		FamilyID:   familyID,
		Name:       strings.TrimSpace(req.Name),
		GradeLevel: strings.TrimSpace(req.GradeLevel),
		Status:     domain.StudentStatusActive,
	}
	if err := s.repo.Create(ctx, &student); err != nil {
		return domain.Student{}, err
	}
	return student, nil
}

func (s *Service) List(ctx context.Context, req domain.ListStudentRequest) (domain.ListStudentResponse, error) {
	filter := &domain.Student{}
	if trimmed := strings.TrimSpace(req.FamilyID); trimmed != "" {
		familyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListStudentResponse{}, domain.ErrInvalidFamily
		}
		filter.FamilyID = familyID
	}
	if req.Status != nil {
		filter.Status = *req.Status
	}

	items, err := s.repo.Find(ctx, filter, option.WithQuerySortBy("name", false))
	if err != nil {
		return domain.ListStudentResponse{}, err
	}

	students := make([]domain.Student, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		students = append(students, *item)
	}

	return domain.ListStudentResponse{Students: students}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Student, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Student{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.Student{ID: parsed})
	if err != nil {
		return domain.Student{}, err
	}
	if item == nil {
		return domain.Student{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateStudentRequest) (domain.Student, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Student{}, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return domain.Student{}, domain.ErrInvalidName
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.GradeLevel != nil {
		updates["grade_level"] = strings.TrimSpace(*req.GradeLevel)
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.StudentStatusActive, domain.StudentStatusInactive:
		default:
			return domain.Student{}, domain.ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, existing.ID.String(), updates); err != nil {
		return domain.Student{}, err
	}
	return s.GetByID(ctx, req.ID)
}
