package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brightpath/tutordesk/internal/billing/domain"
	"github.com/brightpath/tutordesk/internal/billing/draft"
	enrollmentdomain "github.com/brightpath/tutordesk/internal/enrollment/domain"
	eventorderdomain "github.com/brightpath/tutordesk/internal/eventorder/domain"
	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	hubsessiondomain "github.com/brightpath/tutordesk/internal/hubsession/domain"
	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	"github.com/brightpath/tutordesk/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StoreParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Store is the gorm-backed record store the draft engine runs against.
type Store struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewStore(p StoreParam) domain.RecordStore {
	return &Store{
		db:    p.DB,
		log:   p.Log.Named("billing.store"),
		genID: p.GenID,
	}
}

func (s *Store) ListBillableEnrollments(ctx context.Context, filter domain.SourceFilter) ([]domain.BillableSource, error) {
	q := s.db.WithContext(ctx).
		Where("status = ?", enrollmentdomain.EnrollmentStatusActive).
		Order("family_id, id")
	if filter.ServiceCode != nil {
		q = q.Where("service_code = ?", *filter.ServiceCode)
	}
	if filter.TeacherID != nil {
		q = q.Where("teacher_id = ?", *filter.TeacherID)
	}

	var enrollments []enrollmentdomain.Enrollment
	if err := q.Find(&enrollments).Error; err != nil {
		return nil, err
	}

	names, err := s.familyNames(ctx, lo.Map(enrollments, func(e enrollmentdomain.Enrollment, _ int) snowflake.ID {
		return e.FamilyID
	}))
	if err != nil {
		return nil, err
	}

	sources := make([]domain.BillableSource, 0, len(enrollments))
	for _, e := range enrollments {
		sources = append(sources, domain.BillableSource{
			Kind:         domain.KindEnrollment,
			ID:           e.ID,
			FamilyID:     e.FamilyID,
			FamilyName:   names[e.FamilyID],
			ServiceCode:  e.ServiceCode,
			Frequency:    e.BillingFrequency,
			HourlyRate:   draft.CentsToDecimal(e.HourlyRateCents),
			HoursPerWeek: decimal.NewFromFloat(e.HoursPerWeek),
			WeeklyRate:   draft.CentsToDecimal(e.WeeklyRateCents),
			MonthlyRate:  draft.CentsToDecimal(e.MonthlyRateCents),
			DailyRate:    draft.CentsToDecimal(e.DailyRateCents),
			Description:  strings.ReplaceAll(string(e.ServiceCode), "_", " "),
		})
	}
	return sources, nil
}

func (s *Store) ListPendingEventOrders(ctx context.Context) ([]domain.BillableSource, error) {
	var orders []eventorderdomain.EventOrder
	if err := s.db.WithContext(ctx).
		Where("invoiced = ?", false).
		Order("ordered_at, id").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	var familyIDs []snowflake.ID
	for _, o := range orders {
		if o.FamilyID != nil {
			familyIDs = append(familyIDs, *o.FamilyID)
		}
	}
	names, err := s.familyNames(ctx, familyIDs)
	if err != nil {
		return nil, err
	}

	sources := make([]domain.BillableSource, 0, len(orders))
	for _, o := range orders {
		src := domain.BillableSource{
			Kind:           domain.KindEventOrder,
			ID:             o.ID,
			TicketQuantity: o.TicketQuantity,
			TotalCharge:    draft.CentsToDecimal(o.TotalCents),
			EventName:      o.EventName,
			FamilyName:     o.PurchaserName,
			Description:    fmt.Sprintf("%s tickets x%d", o.EventName, o.TicketQuantity),
		}
		if o.FamilyID != nil {
			src.FamilyID = *o.FamilyID
			if name, ok := names[*o.FamilyID]; ok {
				src.FamilyName = name
			}
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (s *Store) ListPendingHubSessions(ctx context.Context) ([]domain.BillableSource, error) {
	var sessions []hubsessiondomain.HubSession
	if err := s.db.WithContext(ctx).
		Where("invoiced = ?", false).
		Order("session_date, id").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	var familyIDs []snowflake.ID
	for _, hs := range sessions {
		if hs.FamilyID != nil {
			familyIDs = append(familyIDs, *hs.FamilyID)
		}
	}
	names, err := s.familyNames(ctx, familyIDs)
	if err != nil {
		return nil, err
	}

	sources := make([]domain.BillableSource, 0, len(sessions))
	for _, hs := range sessions {
		src := domain.BillableSource{
			Kind:        domain.KindHubSession,
			ID:          hs.ID,
			DailyRate:   draft.CentsToDecimal(hs.DailyRateCents),
			SessionDate: hs.SessionDate,
			FamilyName:  hs.StudentName,
			Description: fmt.Sprintf("Learning hub session %s", hs.SessionDate.Format("2006-01-02")),
		}
		if hs.FamilyID != nil {
			src.FamilyID = *hs.FamilyID
			if name, ok := names[*hs.FamilyID]; ok {
				src.FamilyName = name
			}
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// ListInvoicePeriods returns the recurring periods already invoiced for the
// given families. Voided invoices do not count against re-billing.
func (s *Store) ListInvoicePeriods(ctx context.Context, familyIDs []snowflake.ID) ([]domain.InvoicePeriod, error) {
	if len(familyIDs) == 0 {
		return nil, nil
	}

	var invoices []invoicedomain.Invoice
	if err := s.db.WithContext(ctx).
		Where("family_id IN ?", lo.Uniq(familyIDs)).
		Where("mode = ?", invoicedomain.ModeRecurring).
		Where("status <> ?", invoicedomain.InvoiceStatusVoid).
		Where("period_start IS NOT NULL").
		Find(&invoices).Error; err != nil {
		return nil, err
	}

	periods := make([]domain.InvoicePeriod, 0, len(invoices))
	for _, inv := range invoices {
		if inv.PeriodStart == nil || inv.PeriodEnd == nil {
			continue
		}
		periods = append(periods, domain.InvoicePeriod{
			FamilyID:    inv.FamilyID,
			PeriodStart: *inv.PeriodStart,
			PeriodEnd:   *inv.PeriodEnd,
		})
	}
	return periods, nil
}

func (s *Store) CreateInvoiceBatch(ctx context.Context, items []domain.PricedItem, period domain.BillingPeriod) ([]domain.CreatedInvoice, error) {
	grouped, order := groupByFamily(items)

	var created []domain.CreatedInvoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, familyID := range order {
			inv, err := s.insertInvoice(tx, invoicedomain.ModeRecurring, familyID, grouped[familyID], &period, period.DueDate, period.Note)
			if err != nil {
				return fmt.Errorf("family %d: %w", familyID, err)
			}
			created = append(created, inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) CreateInvoiceForFamily(ctx context.Context, mode invoicedomain.BillingMode, familyID snowflake.ID, items []domain.PricedItem, dueAt time.Time, note string) (domain.CreatedInvoice, error) {
	var created domain.CreatedInvoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.insertInvoice(tx, mode, familyID, items, nil, dueAt, note)
		if err != nil {
			return err
		}
		created = inv
		return s.markInvoiced(tx, items)
	})
	if err != nil {
		return domain.CreatedInvoice{}, err
	}
	return created, nil
}

func (s *Store) insertInvoice(tx *gorm.DB, mode invoicedomain.BillingMode, familyID snowflake.ID, items []domain.PricedItem, period *domain.BillingPeriod, dueAt time.Time, note string) (domain.CreatedInvoice, error) {
	var total int64
	lines := make([]invoicedomain.InvoiceLine, 0, len(items))
	for _, item := range items {
		amountCents := draft.DecimalToCents(item.FinalAmount)
		total += amountCents
		lines = append(lines, invoicedomain.InvoiceLine{
			ID:          s.genID.Generate(),
			SourceType:  sourceType(item.Source.Kind),
			SourceID:    item.Source.ID,
			Description: item.Source.Description,
			Quantity:    item.Quantity.InexactFloat64(),
			UnitCents:   draft.DecimalToCents(item.UnitPrice),
			AmountCents: amountCents,
		})
	}

	invoice := invoicedomain.Invoice{
		ID:         s.genID.Generate(),
		FamilyID:   familyID,
		Mode:       mode,
		Status:     invoicedomain.InvoiceStatusOpen,
		Note:       note,
		TotalCents: total,
	}
	if !dueAt.IsZero() {
		invoice.DueAt = &dueAt
	}
	if period != nil {
		start, end := period.Start, period.End
		invoice.PeriodStart = &start
		invoice.PeriodEnd = &end
	}

	if err := tx.Create(&invoice).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.CreatedInvoice{}, domain.ErrDuplicateInvoice
		}
		return domain.CreatedInvoice{}, err
	}
	for i := range lines {
		lines[i].InvoiceID = invoice.ID
	}
	if len(lines) > 0 {
		if err := tx.Create(&lines).Error; err != nil {
			return domain.CreatedInvoice{}, err
		}
	}

	return domain.CreatedInvoice{
		InvoiceID:  invoice.ID,
		FamilyID:   familyID,
		TotalCents: total,
	}, nil
}

// markInvoiced flips the dedupe flag on event orders and hub sessions so
// they drop out of subsequent pending lists.
func (s *Store) markInvoiced(tx *gorm.DB, items []domain.PricedItem) error {
	var orderIDs, sessionIDs []snowflake.ID
	for _, item := range items {
		switch item.Source.Kind {
		case domain.KindEventOrder:
			orderIDs = append(orderIDs, item.Source.ID)
		case domain.KindHubSession:
			sessionIDs = append(sessionIDs, item.Source.ID)
		}
	}

	if len(orderIDs) > 0 {
		if err := tx.Model(&eventorderdomain.EventOrder{}).
			Where("id IN ?", orderIDs).
			Update("invoiced", true).Error; err != nil {
			return err
		}
	}
	if len(sessionIDs) > 0 {
		if err := tx.Model(&hubsessiondomain.HubSession{}).
			Where("id IN ?", sessionIDs).
			Update("invoiced", true).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) familyNames(ctx context.Context, ids []snowflake.ID) (map[snowflake.ID]string, error) {
	names := make(map[snowflake.ID]string)
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return names, nil
	}

	var families []familydomain.Family
	if err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&families).Error; err != nil {
		return nil, err
	}
	for _, f := range families {
		names[f.ID] = f.DisplayName
	}
	return names, nil
}

func groupByFamily(items []domain.PricedItem) (map[snowflake.ID][]domain.PricedItem, []snowflake.ID) {
	grouped := make(map[snowflake.ID][]domain.PricedItem)
	var order []snowflake.ID
	for _, item := range items {
		fid := item.Source.FamilyID
		if _, ok := grouped[fid]; !ok {
			order = append(order, fid)
		}
		grouped[fid] = append(grouped[fid], item)
	}
	return grouped, order
}

func sourceType(kind domain.SourceKind) invoicedomain.SourceType {
	switch kind {
	case domain.KindEventOrder:
		return invoicedomain.SourceEventOrder
	case domain.KindHubSession:
		return invoicedomain.SourceHubSession
	default:
		return invoicedomain.SourceEnrollment
	}
}
