package service

import (
	"context"
	"strings"

	clockpkg "github.com/brightpath/tutordesk/internal/clock"
	"github.com/brightpath/tutordesk/internal/invoice/domain"
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
	Clock clockpkg.Clock
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clockpkg.Clock
	repo     repository.Repository[domain.Invoice]
	lineRepo repository.Repository[domain.InvoiceLine]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		clock:    p.Clock,
		repo:     repository.ProvideStore[domain.Invoice](p.DB),
		lineRepo: repository.ProvideStore[domain.InvoiceLine](p.DB),
	}
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	filter := &domain.Invoice{}
	if trimmed := strings.TrimSpace(req.FamilyID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidFamily
		}
		filter.FamilyID = parsed
	}
	if req.Status != nil {
		filter.Status = *req.Status
	}
	if req.Mode != nil {
		filter.Mode = *req.Mode
	}

	options := []option.QueryOption{option.WithQuerySortBy("created_at", true)}
	if req.DueFrom != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "due_at",
			Operator: option.GTE,
			Value:    *req.DueFrom,
		}))
	}
	if req.DueTo != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "due_at",
			Operator: option.LTE,
			Value:    *req.DueTo,
		}))
	}

	items, err := s.repo.Find(ctx, filter, options...)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	return domain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.InvoiceDetail, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}

	lineItems, err := s.lineRepo.Find(ctx, &domain.InvoiceLine{InvoiceID: invoice.ID})
	if err != nil {
		return domain.InvoiceDetail{}, err
	}

	lines := make([]domain.InvoiceLine, 0, len(lineItems))
	for _, line := range lineItems {
		if line == nil {
			continue
		}
		lines = append(lines, *line)
	}

	return domain.InvoiceDetail{Invoice: invoice, Lines: lines}, nil
}

func (s *Service) MarkPaid(ctx context.Context, id string) (domain.Invoice, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	switch invoice.Status {
	case domain.InvoiceStatusPaid:
		return domain.Invoice{}, domain.ErrAlreadyPaid
	case domain.InvoiceStatusVoid:
		return domain.Invoice{}, domain.ErrAlreadyVoided
	}

	now := s.clock.Now()
	if err := s.repo.Update(ctx, invoice.ID.String(), map[string]any{
		"status":  domain.InvoiceStatusPaid,
		"paid_at": now,
	}); err != nil {
		return domain.Invoice{}, err
	}
	return s.getInvoice(ctx, id)
}

func (s *Service) Void(ctx context.Context, id string) (domain.Invoice, error) {
	invoice, err := s.getInvoice(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	switch invoice.Status {
	case domain.InvoiceStatusPaid:
		return domain.Invoice{}, domain.ErrAlreadyPaid
	case domain.InvoiceStatusVoid:
		return domain.Invoice{}, domain.ErrAlreadyVoided
	}

	if err := s.repo.Update(ctx, invoice.ID.String(), map[string]any{
		"status": domain.InvoiceStatusVoid,
	}); err != nil {
		return domain.Invoice{}, err
	}
	return s.getInvoice(ctx, id)
}

func (s *Service) getInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.Invoice{ID: parsed})
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *item, nil
}
