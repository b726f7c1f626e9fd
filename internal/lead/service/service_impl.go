package service

import (
	"context"
	"strings"

	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	"github.com/brightpath/tutordesk/internal/lead/domain"
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
	repo       repository.Repository[domain.Lead]
	familyRepo repository.Repository[familydomain.Family]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:        p.Log.Named("lead.service"),
		genID:      p.GenID,
		repo:       repository.ProvideStore[domain.Lead](p.DB),
		familyRepo: repository.ProvideStore[familydomain.Family](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateLeadRequest) (domain.Lead, error) {
	if strings.TrimSpace(req.ContactName) == "" {
		return domain.Lead{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Lead{}, domain.ErrInvalidEmail
	}

	lead := domain.Lead{
		ID:          s.genID.Generate(),
		ContactName: strings.TrimSpace(req.ContactName),
		Email:       email,
		Source:      strings.TrimSpace(req.Source),
		Status:      domain.LeadStatusNew,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, &lead); err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

func (s *Service) List(ctx context.Context, req domain.ListLeadRequest) (domain.ListLeadResponse, error) {
	filter := &domain.Lead{}
	if req.Status != nil {
		filter.Status = *req.Status
	}

	items, err := s.repo.Find(ctx, filter, option.WithQuerySortBy("created_at", true))
	if err != nil {
		return domain.ListLeadResponse{}, err
	}

	leads := make([]domain.Lead, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		leads = append(leads, *item)
	}

	return domain.ListLeadResponse{Leads: leads}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Lead, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Lead{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.Lead{ID: parsed})
	if err != nil {
		return domain.Lead{}, err
	}
	if item == nil {
		return domain.Lead{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateLeadRequest) (domain.Lead, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Lead{}, err
	}

	updates := map[string]any{}
	if req.Status != nil {
		switch *req.Status {
		case domain.LeadStatusNew, domain.LeadStatusContacted, domain.LeadStatusTrial,
			domain.LeadStatusConverted, domain.LeadStatusLost:
		default:
			return domain.Lead{}, domain.ErrInvalidStatus
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
		return domain.Lead{}, err
	}
	return s.GetByID(ctx, req.ID)
}

func (s *Service) Convert(ctx context.Context, id, familyID string) (domain.Lead, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}
	if lead.Status == domain.LeadStatusConverted {
		return domain.Lead{}, domain.ErrAlreadyConverted
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(familyID))
	if err != nil {
		return domain.Lead{}, domain.ErrInvalidFamily
	}
	family, err := s.familyRepo.FindOne(ctx, &familydomain.Family{ID: parsed})
	if err != nil {
		return domain.Lead{}, err
	}
	if family == nil {
		return domain.Lead{}, domain.ErrInvalidFamily
	}

	if err := s.repo.Update(ctx, lead.ID.String(), map[string]any{
		"status":    domain.LeadStatusConverted,
		"family_id": parsed,
	}); err != nil {
		return domain.Lead{}, err
	}
	return s.GetByID(ctx, id)
}
