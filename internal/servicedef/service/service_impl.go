package service

import (
	"context"
	"strings"

	"github.com/brightpath/tutordesk/internal/servicedef/domain"
	pkgdb "github.com/brightpath/tutordesk/pkg/db"
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
	repo  repository.Repository[domain.ServiceDefinition]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:   p.Log.Named("servicedef.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.ServiceDefinition](p.DB),
	}
}

func (s *Service) List(ctx context.Context, req domain.ListServiceRequest) (domain.ListServiceResponse, error) {
	filter := &domain.ServiceDefinition{}
	if req.ActiveOnly {
		filter.Active = true
	}

	items, err := s.repo.Find(ctx, filter, option.WithQuerySortBy("display_name", false))
	if err != nil {
		return domain.ListServiceResponse{}, err
	}

	services := make([]domain.ServiceDefinition, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		services = append(services, *item)
	}

	return domain.ListServiceResponse{Services: services}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.ServiceDefinition, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ServiceDefinition{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.ServiceDefinition{ID: parsed})
	if err != nil {
		return domain.ServiceDefinition{}, err
	}
	if item == nil {
		return domain.ServiceDefinition{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByCode(ctx context.Context, code domain.ServiceCode) (domain.ServiceDefinition, error) {
	item, err := s.repo.FindOne(ctx, &domain.ServiceDefinition{Code: code})
	if err != nil {
		return domain.ServiceDefinition{}, err
	}
	if item == nil {
		return domain.ServiceDefinition{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateServiceRequest) (domain.ServiceDefinition, error) {
	code := domain.ServiceCode(strings.TrimSpace(string(req.Code)))
	if code == "" {
		return domain.ServiceDefinition{}, domain.ErrInvalidCode
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		return domain.ServiceDefinition{}, domain.ErrInvalidName
	}
	switch req.BillingFrequency {
	case domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyPerSession:
	default:
		return domain.ServiceDefinition{}, domain.ErrInvalidFrequency
	}
	if req.HourlyRateCents < 0 || req.WeeklyRateCents < 0 || req.MonthlyRateCents < 0 || req.DailyRateCents < 0 {
		return domain.ServiceDefinition{}, domain.ErrInvalidRate
	}

	svc := domain.ServiceDefinition{
		ID:               s.genID.Generate(),
		Code:             code,
		DisplayName:      strings.TrimSpace(req.DisplayName),
		BillingFrequency: req.BillingFrequency,
		HourlyRateCents:  req.HourlyRateCents,
		WeeklyRateCents:  req.WeeklyRateCents,
		MonthlyRateCents: req.MonthlyRateCents,
		DailyRateCents:   req.DailyRateCents,
		Active:           true,
	}
	if err := s.repo.Create(ctx, &svc); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.ServiceDefinition{}, domain.ErrDuplicateCode
		}
		return domain.ServiceDefinition{}, err
	}
	return svc, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateServiceRequest) (domain.ServiceDefinition, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.ServiceDefinition{}, err
	}

	updates := map[string]any{}
	if req.DisplayName != nil {
		if strings.TrimSpace(*req.DisplayName) == "" {
			return domain.ServiceDefinition{}, domain.ErrInvalidName
		}
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.BillingFrequency != nil {
		switch *req.BillingFrequency {
		case domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyPerSession:
		default:
			return domain.ServiceDefinition{}, domain.ErrInvalidFrequency
		}
		updates["billing_frequency"] = *req.BillingFrequency
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
			return domain.ServiceDefinition{}, domain.ErrInvalidRate
		}
		updates[field] = *value
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, existing.ID.String(), updates); err != nil {
		return domain.ServiceDefinition{}, err
	}
	return s.GetByID(ctx, req.ID)
}
