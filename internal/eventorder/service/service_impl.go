package service

import (
	"context"
	"strings"

	clockpkg "github.com/brightpath/tutordesk/internal/clock"
	"github.com/brightpath/tutordesk/internal/eventorder/domain"
	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
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
	Clock clockpkg.Clock
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clockpkg.Clock
	repo       repository.Repository[domain.EventOrder]
	familyRepo repository.Repository[familydomain.Family]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:        p.Log.Named("eventorder.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       repository.ProvideStore[domain.EventOrder](p.DB),
		familyRepo: repository.ProvideStore[familydomain.Family](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEventOrderRequest) (domain.EventOrder, error) {
	if strings.TrimSpace(req.PurchaserName) == "" || strings.TrimSpace(req.PurchaserEmail) == "" {
		return domain.EventOrder{}, domain.ErrInvalidPurchaser
	}
	if strings.TrimSpace(req.EventName) == "" {
		return domain.EventOrder{}, domain.ErrInvalidEvent
	}
	if req.TicketQuantity <= 0 {
		return domain.EventOrder{}, domain.ErrInvalidQuantity
	}
	if req.TotalCents < 0 {
		return domain.EventOrder{}, domain.ErrInvalidTotal
	}

	var familyID *snowflake.ID
	if trimmed := strings.TrimSpace(req.FamilyID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.EventOrder{}, domain.ErrInvalidFamily
		}
		family, err := s.familyRepo.FindOne(ctx, &familydomain.Family{ID: parsed})
		if err != nil {
			return domain.EventOrder{}, err
		}
		if family == nil {
			return domain.EventOrder{}, domain.ErrInvalidFamily
		}
		familyID = &parsed
	}

	order := domain.EventOrder{
		ID:             s.genID.Generate(),
		FamilyID:       familyID,
		PurchaserName:  strings.TrimSpace(req.PurchaserName),
		PurchaserEmail: strings.TrimSpace(req.PurchaserEmail),
		EventName:      strings.TrimSpace(req.EventName),
		TicketQuantity: req.TicketQuantity,
		TotalCents:     req.TotalCents,
		OrderedAt:      s.clock.Now(),
	}
	if err := s.repo.Create(ctx, &order); err != nil {
		return domain.EventOrder{}, err
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListEventOrderRequest) (domain.ListEventOrderResponse, error) {
	filter := &domain.EventOrder{}
	if trimmed := strings.TrimSpace(req.FamilyID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListEventOrderResponse{}, domain.ErrInvalidFamily
		}
		filter.FamilyID = &parsed
	}

	options := []option.QueryOption{option.WithQuerySortBy("ordered_at", false)}
	if req.PendingOnly {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "invoiced",
			Operator: option.EQ,
			Value:    false,
		}))
	}

	items, err := s.repo.Find(ctx, filter, options...)
	if err != nil {
		return domain.ListEventOrderResponse{}, err
	}

	orders := make([]domain.EventOrder, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		orders = append(orders, *item)
	}

	return domain.ListEventOrderResponse{Orders: orders}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.EventOrder, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.EventOrder{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.EventOrder{ID: parsed})
	if err != nil {
		return domain.EventOrder{}, err
	}
	if item == nil {
		return domain.EventOrder{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) LinkFamily(ctx context.Context, id, familyID string) (domain.EventOrder, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.EventOrder{}, err
	}
	if order.Invoiced {
		return domain.EventOrder{}, domain.ErrAlreadyInvoiced
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(familyID))
	if err != nil {
		return domain.EventOrder{}, domain.ErrInvalidFamily
	}
	family, err := s.familyRepo.FindOne(ctx, &familydomain.Family{ID: parsed})
	if err != nil {
		return domain.EventOrder{}, err
	}
	if family == nil {
		return domain.EventOrder{}, domain.ErrInvalidFamily
	}

	if err := s.repo.Update(ctx, order.ID.String(), map[string]any{"family_id": parsed}); err != nil {
		return domain.EventOrder{}, err
	}
	return s.GetByID(ctx, id)
}
