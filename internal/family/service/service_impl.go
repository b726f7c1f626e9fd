package service

import (
	"context"
	"strings"

	"github.com/brightpath/tutordesk/internal/family/domain"
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
	repo  repository.Repository[domain.Family]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:   p.Log.Named("family.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.Family](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateFamilyRequest) (domain.Family, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return domain.Family{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Family{}, domain.ErrInvalidEmail
	}

	family := domain.Family{
		ID:          s.genID.Generate(),
		DisplayName: name,
		ContactName: strings.TrimSpace(req.ContactName),
		Email:       email,
		Phone:       strings.TrimSpace(req.Phone),
		Status:      domain.FamilyStatusActive,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, &family); err != nil {
		return domain.Family{}, err
	}
	return family, nil
}

func (s *Service) List(ctx context.Context, req domain.ListFamilyRequest) (domain.ListFamilyResponse, error) {
	filter := &domain.Family{}
	if req.Status != nil {
		filter.Status = *req.Status
	}

	options := []option.QueryOption{
		option.WithQuerySortBy("display_name", false),
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "display_name",
			Operator: option.EQ,
			Value:    name,
		}))
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "email",
			Operator: option.EQ,
			Value:    email,
		}))
	}
	if req.CreatedFrom != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "created_at",
			Operator: option.GTE,
			Value:    *req.CreatedFrom,
		}))
	}
	if req.CreatedTo != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "created_at",
			Operator: option.LTE,
			Value:    *req.CreatedTo,
		}))
	}

	items, err := s.repo.Find(ctx, filter, options...)
	if err != nil {
		return domain.ListFamilyResponse{}, err
	}

	families := make([]domain.Family, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		families = append(families, *item)
	}

	return domain.ListFamilyResponse{Families: families}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Family, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Family{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.Family{ID: parsed})
	if err != nil {
		return domain.Family{}, err
	}
	if item == nil {
		return domain.Family{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateFamilyRequest) (domain.Family, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Family{}, err
	}

	updates := map[string]any{}
	if req.DisplayName != nil {
		if strings.TrimSpace(*req.DisplayName) == "" {
			return domain.Family{}, domain.ErrInvalidName
		}
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.ContactName != nil {
		updates["contact_name"] = strings.TrimSpace(*req.ContactName)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return domain.Family{}, domain.ErrInvalidEmail
		}
		updates["email"] = email
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.FamilyStatusActive, domain.FamilyStatusInactive:
		default:
			return domain.Family{}, domain.ErrInvalidStatus
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
		return domain.Family{}, err
	}
	return s.GetByID(ctx, req.ID)
}
