package service

import (
	"context"
	"strings"

	"github.com/brightpath/tutordesk/internal/teacher/domain"
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
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[domain.Teacher]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:   p.Log.Named("teacher.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.Teacher](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTeacherRequest) (domain.Teacher, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.Teacher{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Teacher{}, domain.ErrInvalidEmail
	}

	teacher := domain.Teacher{
		ID:       s.genID.Generate(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Subjects: strings.TrimSpace(req.Subjects),
		Status:   domain.TeacherStatusActive,
	}
	if err := s.repo.Create(ctx, &teacher); err != nil {
		return domain.Teacher{}, err
	}
	return teacher, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTeacherRequest) (domain.ListTeacherResponse, error) {
	filter := &domain.Teacher{}
	if req.Status != nil {
		filter.Status = *req.Status
	}

	items, err := s.repo.Find(ctx, filter, option.WithQuerySortBy("name", false))
	if err != nil {
		return domain.ListTeacherResponse{}, err
	}

	teachers := make([]domain.Teacher, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		teachers = append(teachers, *item)
	}

	return domain.ListTeacherResponse{Teachers: teachers}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Teacher, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Teacher{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.Teacher{ID: parsed})
	if err != nil {
		return domain.Teacher{}, err
	}
	if item == nil {
		return domain.Teacher{}, domain.ErrNotFound
	}
	return *item, nil
}
