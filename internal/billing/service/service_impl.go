package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/brightpath/tutordesk/internal/billing/domain"
	"github.com/brightpath/tutordesk/internal/billing/draft"
	clockpkg "github.com/brightpath/tutordesk/internal/clock"
	"github.com/brightpath/tutordesk/internal/config"
	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	"github.com/brightpath/tutordesk/pkg/telemetry"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Store     domain.RecordStore
	Log       *zap.Logger
	Clock     clockpkg.Clock
	Billing   *config.BillingConfigHolder
	Metrics   *telemetry.Metrics `optional:"true"`
	Publisher domain.Publisher   `optional:"true"`
	Notifier  Notifier           `optional:"true"`
}

// Service is the draft-generation orchestrator. It loads billable sources,
// runs the pure pricing pipeline, and drives invoice creation per mode.
type Service struct {
	store     domain.RecordStore
	log       *zap.Logger
	clock     clockpkg.Clock
	billing   *config.BillingConfigHolder
	metrics   *telemetry.Metrics
	publisher domain.Publisher
	notifier  Notifier
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		store:     p.Store,
		log:       p.Log.Named("billing.service"),
		clock:     p.Clock,
		billing:   p.Billing,
		metrics:   p.Metrics,
		publisher: p.Publisher,
		notifier:  p.Notifier,
	}
}

func (s *Service) Preview(ctx context.Context, req domain.DraftRequest) (domain.DraftPreview, error) {
	if err := s.validate(req, false); err != nil {
		return domain.DraftPreview{}, err
	}

	items, duplicates, unlinked, err := s.loadAndPrice(ctx, req)
	if err != nil {
		return domain.DraftPreview{}, err
	}

	selected, eligible := draft.DefaultSelection(items, duplicates, nil, -1)
	if req.Selected != nil && req.EligibleCount != nil {
		// The caller's selection sticks as long as the eligible count it was
		// made against still holds; a shifted population recomputes from
		// scratch. A selection without its count falls back to defaults.
		selected, eligible = draft.DefaultSelection(items, duplicates, draft.NewItemSet(req.Selected), *req.EligibleCount)
	}

	groups := draft.Group(items, selected, duplicates, s.groupOptions(req))

	return domain.DraftPreview{
		Mode:          req.Mode,
		Groups:        groups,
		Duplicates:    sortedFamilies(duplicates),
		Selected:      selected.IDs(),
		EligibleCount: eligible,
		Unlinked:      unlinked,
	}, nil
}

func (s *Service) Submit(ctx context.Context, req domain.DraftRequest) (domain.BatchResult, error) {
	if err := s.validate(req, true); err != nil {
		return domain.BatchResult{}, err
	}

	items, duplicates, _, err := s.loadAndPrice(ctx, req)
	if err != nil {
		return domain.BatchResult{}, err
	}

	chosen, unlinked, err := s.selectItems(items, duplicates, req.Selected)
	if err != nil {
		return domain.BatchResult{}, err
	}

	result, err := s.createInvoices(ctx, req, chosen, unlinked)
	if err != nil {
		s.observeRun(req.Mode, result, len(chosen))
		return domain.BatchResult{}, err
	}

	s.observeRun(req.Mode, result, len(chosen))
	s.log.Info("draft batch submitted",
		zap.String("mode", string(req.Mode)),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
		zap.Int("unlinked", result.Unlinked),
	)

	if result.Done() {
		s.publishChanged()
		s.notify(ctx, result.Created)
	}
	return result, nil
}

func (s *Service) validate(req domain.DraftRequest, submitting bool) error {
	switch req.Mode {
	case invoicedomain.ModeRecurring, invoicedomain.ModeEvent, invoicedomain.ModeHub:
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidMode, req.Mode)
	}

	if req.Mode == invoicedomain.ModeRecurring {
		if req.Period == nil {
			return domain.ErrMissingPeriod
		}
		if !req.Period.End.After(req.Period.Start) {
			return domain.ErrInvalidPeriod
		}
	}

	for id, ov := range req.Overrides {
		if (ov.Quantity != nil && ov.Quantity.IsNegative()) ||
			(ov.UnitPrice != nil && ov.UnitPrice.IsNegative()) {
			return fmt.Errorf("%w: source %d", domain.ErrNegativeOverride, id)
		}
	}
	for id, amount := range req.AmountEdits {
		if amount.IsNegative() {
			return fmt.Errorf("%w: source %d", domain.ErrNegativeOverride, id)
		}
	}
	for code, qty := range req.GlobalQuantity {
		if qty.IsNegative() {
			return fmt.Errorf("%w: service %s", domain.ErrNegativeOverride, code)
		}
	}

	if submitting && req.Selected != nil && len(req.Selected) == 0 {
		return domain.ErrEmptySelection
	}
	return nil
}

// loadAndPrice fetches the mode's billable sources, flags duplicate
// families, and runs the pricing pipeline.
func (s *Service) loadAndPrice(ctx context.Context, req domain.DraftRequest) ([]domain.PricedItem, draft.FamilySet, int, error) {
	var (
		sources []domain.BillableSource
		err     error
	)
	switch req.Mode {
	case invoicedomain.ModeRecurring:
		sources, err = s.store.ListBillableEnrollments(ctx, req.Filter)
	case invoicedomain.ModeEvent:
		sources, err = s.store.ListPendingEventOrders(ctx)
	case invoicedomain.ModeHub:
		sources, err = s.store.ListPendingHubSessions(ctx)
	}
	if err != nil {
		return nil, nil, 0, err
	}

	duplicates := make(draft.FamilySet)
	if req.Mode == invoicedomain.ModeRecurring && req.Period != nil {
		familyIDs := make([]snowflake.ID, 0, len(sources))
		for _, src := range sources {
			if src.Linked() {
				familyIDs = append(familyIDs, src.FamilyID)
			}
		}
		existing, err := s.store.ListInvoicePeriods(ctx, familyIDs)
		if err != nil {
			return nil, nil, 0, err
		}
		duplicates = draft.MarkDuplicates(existing, *req.Period)
	}

	items, err := draft.Price(sources, draft.PriceOptions{
		Overrides:      req.Overrides,
		AmountEdits:    req.AmountEdits,
		GlobalQuantity: req.GlobalQuantity,
	})
	if err != nil {
		return nil, nil, 0, err
	}

	unlinked := 0
	for _, item := range items {
		if !item.Source.Linked() {
			unlinked++
		}
	}
	return items, duplicates, unlinked, nil
}

// selectItems narrows priced items to the submission set. Unlinked items are
// excluded before any creation attempt and reported via the count, never as
// failures.
func (s *Service) selectItems(items []domain.PricedItem, duplicates draft.FamilySet, requested []snowflake.ID) ([]domain.PricedItem, int, error) {
	var set draft.ItemSet
	if requested != nil {
		set = draft.NewItemSet(requested)
		known := draft.NewItemSet(nil)
		for _, item := range items {
			known[item.ID()] = struct{}{}
		}
		for id := range set {
			if !known.Has(id) {
				return nil, 0, fmt.Errorf("%w: source %d", domain.ErrUnknownSelection, id)
			}
		}
	} else {
		set, _ = draft.DefaultSelection(items, duplicates, nil, -1)
	}

	var chosen []domain.PricedItem
	unlinked := 0
	for _, item := range items {
		if !set.Has(item.ID()) {
			continue
		}
		if !item.Source.Linked() {
			unlinked++
			continue
		}
		chosen = append(chosen, item)
	}
	return chosen, unlinked, nil
}

func (s *Service) createInvoices(ctx context.Context, req domain.DraftRequest, chosen []domain.PricedItem, unlinked int) (domain.BatchResult, error) {
	result := domain.BatchResult{Mode: req.Mode, Unlinked: unlinked}
	if len(chosen) == 0 {
		return result, nil
	}

	if req.Mode == invoicedomain.ModeRecurring {
		period := *req.Period
		if period.DueDate.IsZero() {
			period.DueDate = s.clock.Now().AddDate(0, 0, s.billing.Current().DefaultDueDays)
		}
		created, err := s.store.CreateInvoiceBatch(ctx, chosen, period)
		if err != nil {
			// Recurring creation is atomic; any failure voids the whole run.
			return result, fmt.Errorf("%w: %v", domain.ErrBatchCreation, err)
		}
		result.Created = created
		for _, inv := range created {
			result.Succeeded = append(result.Succeeded, inv.FamilyID)
		}
		return result, nil
	}

	// Event and hub invoices are created per family; one family's failure
	// never blocks the rest.
	dueAt := s.clock.Now().AddDate(0, 0, s.billing.Current().DefaultDueDays)
	note := ""
	if req.Period != nil {
		note = req.Period.Note
	}
	grouped, order := groupByFamily(chosen)
	for _, familyID := range order {
		created, err := s.store.CreateInvoiceForFamily(ctx, req.Mode, familyID, grouped[familyID], dueAt, note)
		if err != nil {
			s.log.Warn("invoice creation failed",
				zap.String("mode", string(req.Mode)),
				zap.Int64("family_id", int64(familyID)),
				zap.Error(err),
			)
			if s.metrics != nil {
				s.metrics.ObserveBatchFailure(string(req.Mode))
			}
			result.Failed = append(result.Failed, domain.CreationFailure{
				FamilyID: familyID,
				Reason:   err.Error(),
				Err:      err,
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, familyID)
		result.Created = append(result.Created, created)
	}
	return result, nil
}

func (s *Service) groupOptions(req domain.DraftRequest) draft.GroupOptions {
	sortByTotal := req.SortByTotal || s.billing.Current().DraftSortByTotal
	return draft.GroupOptions{SortByTotal: sortByTotal, Desc: req.SortDesc}
}

func (s *Service) observeRun(mode invoicedomain.BillingMode, result domain.BatchResult, items int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDraftRun(string(mode), result.Outcome(), items)
	for _, inv := range result.Created {
		s.metrics.ObserveInvoiceCreated(string(mode), inv.TotalCents)
	}
}

func (s *Service) publishChanged() {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(domain.TopicInvoicesChanged)
	s.publisher.Publish(domain.TopicDashboardStatsChanged)
	s.publisher.Publish(domain.TopicRosterStatsChanged)
}

func (s *Service) notify(ctx context.Context, created []domain.CreatedInvoice) {
	if s.notifier == nil {
		return
	}
	for _, inv := range created {
		if err := s.notifier.InvoiceCreated(ctx, inv); err != nil {
			s.log.Warn("invoice notification failed",
				zap.Int64("invoice_id", int64(inv.InvoiceID)),
				zap.Error(err),
			)
		}
	}
}

func sortedFamilies(set draft.FamilySet) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
