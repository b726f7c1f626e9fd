package service

import (
	"context"
	"strings"
	"time"

	"github.com/brightpath/tutordesk/internal/config"
	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	"github.com/brightpath/tutordesk/internal/hubsession/domain"
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
	BillingCfg *config.BillingConfigHolder
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	billingCfg *config.BillingConfigHolder
	repo       repository.Repository[domain.HubSession]
	familyRepo repository.Repository[familydomain.Family]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:        p.Log.Named("hubsession.service"),
		genID:      p.GenID,
		billingCfg: p.BillingCfg,
		repo:       repository.ProvideStore[domain.HubSession](p.DB),
		familyRepo: repository.ProvideStore[familydomain.Family](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateHubSessionRequest) (domain.HubSession, error) {
	if strings.TrimSpace(req.StudentName) == "" {
		return domain.HubSession{}, domain.ErrInvalidStudent
	}
	if req.SessionDate.IsZero() {
		return domain.HubSession{}, domain.ErrInvalidDate
	}

	rate := s.billingCfg.Current().HubSessionDailyRateCents
	if req.DailyRateCents != nil {
		if *req.DailyRateCents < 0 {
			return domain.HubSession{}, domain.ErrInvalidRate
		}
		rate = *req.DailyRateCents
	}

	var familyID *snowflake.ID
	if trimmed := strings.TrimSpace(req.FamilyID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.HubSession{}, domain.ErrInvalidFamily
		}
		family, err := s.familyRepo.FindOne(ctx, &familydomain.Family{ID: parsed})
		if err != nil {
			return domain.HubSession{}, err
		}
		if family == nil {
			return domain.HubSession{}, domain.ErrInvalidFamily
		}
		familyID = &parsed
	}

	session := domain.HubSession{
		ID:             s.genID.Generate(),
		FamilyID:       familyID,
		StudentName:    strings.TrimSpace(req.StudentName),
		SessionDate:    req.SessionDate.UTC().Truncate(24 * time.Hour),
		DailyRateCents: rate,
	}
	if err := s.repo.Create(ctx, &session); err != nil {
		return domain.HubSession{}, err
	}
	return session, nil
}

func (s *Service) List(ctx context.Context, req domain.ListHubSessionRequest) (domain.ListHubSessionResponse, error) {
	filter := &domain.HubSession{}
	if trimmed := strings.TrimSpace(req.FamilyID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListHubSessionResponse{}, domain.ErrInvalidFamily
		}
		filter.FamilyID = &parsed
	}

	options := []option.QueryOption{option.WithQuerySortBy("session_date", false)}
	if req.PendingOnly {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "invoiced",
			Operator: option.EQ,
			Value:    false,
		}))
	}
	if req.From != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "session_date",
			Operator: option.GTE,
			Value:    *req.From,
		}))
	}
	if req.To != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "session_date",
			Operator: option.LTE,
			Value:    *req.To,
		}))
	}

	items, err := s.repo.Find(ctx, filter, options...)
	if err != nil {
		return domain.ListHubSessionResponse{}, err
	}

	sessions := make([]domain.HubSession, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		sessions = append(sessions, *item)
	}

	return domain.ListHubSessionResponse{Sessions: sessions}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.HubSession, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.HubSession{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.HubSession{ID: parsed})
	if err != nil {
		return domain.HubSession{}, err
	}
	if item == nil {
		return domain.HubSession{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) LinkFamily(ctx context.Context, id, familyID string) (domain.HubSession, error) {
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.HubSession{}, err
	}
	if session.Invoiced {
		return domain.HubSession{}, domain.ErrAlreadyInvoiced
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(familyID))
	if err != nil {
		return domain.HubSession{}, domain.ErrInvalidFamily
	}
	family, err := s.familyRepo.FindOne(ctx, &familydomain.Family{ID: parsed})
	if err != nil {
		return domain.HubSession{}, err
	}
	if family == nil {
		return domain.HubSession{}, domain.ErrInvalidFamily
	}

	if err := s.repo.Update(ctx, session.ID.String(), map[string]any{"family_id": parsed}); err != nil {
		return domain.HubSession{}, err
	}
	return s.GetByID(ctx, id)
}
