package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brightpath/tutordesk/internal/billing/domain"
	"github.com/brightpath/tutordesk/internal/billing/events"
	clockpkg "github.com/brightpath/tutordesk/internal/clock"
	"github.com/brightpath/tutordesk/internal/config"
	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var node, _ = snowflake.NewNode(2)

// stubStore scripts the record store so batch semantics can be tested
// without a database.
type stubStore struct {
	sources    []domain.BillableSource
	periods    []domain.InvoicePeriod
	failFamily map[snowflake.ID]error
	failBatch  error

	batchCalls  int
	familyCalls []snowflake.ID
	marked      [][]domain.PricedItem
}

func (s *stubStore) ListBillableEnrollments(ctx context.Context, _ domain.SourceFilter) ([]domain.BillableSource, error) {
	return s.sources, nil
}

func (s *stubStore) ListPendingEventOrders(ctx context.Context) ([]domain.BillableSource, error) {
	return s.sources, nil
}

func (s *stubStore) ListPendingHubSessions(ctx context.Context) ([]domain.BillableSource, error) {
	return s.sources, nil
}

func (s *stubStore) ListInvoicePeriods(ctx context.Context, _ []snowflake.ID) ([]domain.InvoicePeriod, error) {
	return s.periods, nil
}

func (s *stubStore) CreateInvoiceBatch(ctx context.Context, items []domain.PricedItem, _ domain.BillingPeriod) ([]domain.CreatedInvoice, error) {
	s.batchCalls++
	if s.failBatch != nil {
		return nil, s.failBatch
	}
	var created []domain.CreatedInvoice
	seen := map[snowflake.ID]bool{}
	for _, item := range items {
		if !seen[item.Source.FamilyID] {
			seen[item.Source.FamilyID] = true
			created = append(created, domain.CreatedInvoice{
				InvoiceID: node.Generate(),
				FamilyID:  item.Source.FamilyID,
			})
		}
	}
	return created, nil
}

func (s *stubStore) CreateInvoiceForFamily(ctx context.Context, _ invoicedomain.BillingMode, familyID snowflake.ID, items []domain.PricedItem, _ time.Time, _ string) (domain.CreatedInvoice, error) {
	s.familyCalls = append(s.familyCalls, familyID)
	if err, ok := s.failFamily[familyID]; ok {
		return domain.CreatedInvoice{}, err
	}
	s.marked = append(s.marked, items)
	return domain.CreatedInvoice{InvoiceID: node.Generate(), FamilyID: familyID}, nil
}

func newTestService(store domain.RecordStore, bus *events.Bus) domain.Service {
	p := ServiceParam{
		Store:   store,
		Log:     zap.NewNop(),
		Clock:   clockpkg.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		Billing: config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
	}
	// Assigning a nil *events.Bus directly would make the Publisher
	// interface non-nil while wrapping a nil pointer.
	if bus != nil {
		p.Publisher = bus
	}
	return NewService(p)
}

func eventSource(familyID snowflake.ID, name string, qty int64, total string) domain.BillableSource {
	charge, _ := decimal.NewFromString(total)
	return domain.BillableSource{
		Kind:           domain.KindEventOrder,
		ID:             node.Generate(),
		FamilyID:       familyID,
		FamilyName:     name,
		TicketQuantity: qty,
		TotalCharge:    charge,
	}
}

func TestSubmit_EventMode_FailureIsolation(t *testing.T) {
	famA := node.Generate()
	famB := node.Generate()
	famC := node.Generate()
	boom := errors.New("insert blew up")

	store := &stubStore{
		sources: []domain.BillableSource{
			eventSource(famA, "Abebe", 2, "80.00"),
			eventSource(famB, "Moreau", 1, "40.00"),
			eventSource(famC, "Zhang", 3, "120.00"),
		},
		failFamily: map[snowflake.ID]error{famB: boom},
	}

	svc := newTestService(store, nil)
	result, err := svc.Submit(context.Background(), domain.DraftRequest{Mode: invoicedomain.ModeEvent})
	require.NoError(t, err)

	assert.Len(t, result.Succeeded, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, famB, result.Failed[0].FamilyID)
	assert.Equal(t, "insert blew up", result.Failed[0].Reason, "the store error is surfaced verbatim")
	assert.True(t, result.Done())
	assert.Equal(t, "2 succeeded, 1 failed", result.Message())

	// Every family got its own attempt despite the middle failure.
	assert.Equal(t, []snowflake.ID{famA, famB, famC}, store.familyCalls)
}

func TestSubmit_EventMode_AllFailedIsNotDone(t *testing.T) {
	fam := node.Generate()
	store := &stubStore{
		sources:    []domain.BillableSource{eventSource(fam, "Abebe", 1, "40.00")},
		failFamily: map[snowflake.ID]error{fam: errors.New("nope")},
	}

	svc := newTestService(store, nil)
	result, err := svc.Submit(context.Background(), domain.DraftRequest{Mode: invoicedomain.ModeEvent})
	require.NoError(t, err)

	assert.False(t, result.Done())
	assert.Equal(t, "all 1 invoice creations failed", result.Message())
}

func TestSubmit_UnlinkedExcludedBeforeCreation(t *testing.T) {
	linked := eventSource(node.Generate(), "Moreau", 1, "40.00")
	walkIn := eventSource(0, "walk-in purchaser", 1, "25.00")

	store := &stubStore{sources: []domain.BillableSource{linked, walkIn}}
	svc := newTestService(store, nil)

	result, err := svc.Submit(context.Background(), domain.DraftRequest{
		Mode:     invoicedomain.ModeEvent,
		Selected: []snowflake.ID{linked.ID, walkIn.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Unlinked)
	assert.Len(t, result.Succeeded, 1)
	assert.Empty(t, result.Failed, "unlinked sources are a precondition gap, not failures")
	assert.Len(t, store.familyCalls, 1)
}

func TestSubmit_OnlyUnlinkedSources(t *testing.T) {
	walkIn := eventSource(0, "walk-in purchaser", 1, "25.00")
	store := &stubStore{sources: []domain.BillableSource{walkIn}}
	svc := newTestService(store, nil)

	result, err := svc.Submit(context.Background(), domain.DraftRequest{
		Mode:     invoicedomain.ModeEvent,
		Selected: []snowflake.ID{walkIn.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Unlinked)
	assert.False(t, result.Done())
	assert.Equal(t, "nothing to invoice", result.Message())
	assert.Empty(t, store.familyCalls)
}

func TestSubmit_RecurringIsAtomic(t *testing.T) {
	src := domain.BillableSource{
		Kind:        domain.KindEnrollment,
		ID:          node.Generate(),
		FamilyID:    node.Generate(),
		FamilyName:  "Nguyen",
		MonthlyRate: decimal.NewFromInt(300),
	}
	store := &stubStore{
		sources:   []domain.BillableSource{src},
		failBatch: errors.New("unique constraint"),
	}
	svc := newTestService(store, nil)

	period := &domain.BillingPeriod{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	_, err := svc.Submit(context.Background(), domain.DraftRequest{
		Mode:   invoicedomain.ModeRecurring,
		Period: period,
	})
	assert.ErrorIs(t, err, domain.ErrBatchCreation)
	assert.Equal(t, 1, store.batchCalls)
}

func TestSubmit_PublishesOnlyWhenInvoicesCreated(t *testing.T) {
	fam := node.Generate()
	store := &stubStore{sources: []domain.BillableSource{eventSource(fam, "Abebe", 1, "40.00")}}

	bus := events.NewBus()
	var topics []string
	for _, topic := range []string{
		domain.TopicInvoicesChanged,
		domain.TopicDashboardStatsChanged,
		domain.TopicRosterStatsChanged,
	} {
		bus.Subscribe(topic, func(topic string) { topics = append(topics, topic) })
	}

	svc := newTestService(store, bus)
	result, err := svc.Submit(context.Background(), domain.DraftRequest{Mode: invoicedomain.ModeEvent})
	require.NoError(t, err)
	require.True(t, result.Done())
	assert.Len(t, topics, 3)

	// A fully failed run publishes nothing.
	topics = nil
	store.failFamily = map[snowflake.ID]error{fam: errors.New("nope")}
	_, err = svc.Submit(context.Background(), domain.DraftRequest{Mode: invoicedomain.ModeEvent})
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestSubmit_Validation(t *testing.T) {
	svc := newTestService(&stubStore{}, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, domain.DraftRequest{Mode: "mystery"})
	assert.ErrorIs(t, err, domain.ErrInvalidMode)

	_, err = svc.Submit(ctx, domain.DraftRequest{Mode: invoicedomain.ModeRecurring})
	assert.ErrorIs(t, err, domain.ErrMissingPeriod)

	backwards := &domain.BillingPeriod{
		Start: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err = svc.Submit(ctx, domain.DraftRequest{Mode: invoicedomain.ModeRecurring, Period: backwards})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	_, err = svc.Submit(ctx, domain.DraftRequest{Mode: invoicedomain.ModeEvent, Selected: []snowflake.ID{}})
	assert.ErrorIs(t, err, domain.ErrEmptySelection)

	_, err = svc.Submit(ctx, domain.DraftRequest{Mode: invoicedomain.ModeEvent, Selected: []snowflake.ID{node.Generate()}})
	assert.ErrorIs(t, err, domain.ErrUnknownSelection)
}

func TestPreview_FlagsDuplicatesAndSelectsEligible(t *testing.T) {
	famDup := node.Generate()
	famOK := node.Generate()
	period := &domain.BillingPeriod{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	store := &stubStore{
		sources: []domain.BillableSource{
			{Kind: domain.KindEnrollment, ID: node.Generate(), FamilyID: famDup, FamilyName: "Abebe", MonthlyRate: decimal.NewFromInt(200)},
			{Kind: domain.KindEnrollment, ID: node.Generate(), FamilyID: famOK, FamilyName: "Moreau", MonthlyRate: decimal.NewFromInt(150)},
		},
		periods: []domain.InvoicePeriod{
			{FamilyID: famDup, PeriodStart: period.Start, PeriodEnd: period.End},
		},
	}

	svc := newTestService(store, nil)
	preview, err := svc.Preview(context.Background(), domain.DraftRequest{
		Mode:   invoicedomain.ModeRecurring,
		Period: period,
	})
	require.NoError(t, err)

	assert.Equal(t, []snowflake.ID{famDup}, preview.Duplicates)
	assert.Equal(t, 1, preview.EligibleCount)
	assert.Len(t, preview.Selected, 1)
	require.Len(t, preview.Groups, 2)
	assert.Equal(t, "Abebe", preview.Groups[1].FamilyName, "duplicate family sorts last")
	assert.True(t, preview.Groups[1].HasExistingInvoice)
}

func TestPreview_SelectionSticksWhileEligibleCountHolds(t *testing.T) {
	kept := eventSource(node.Generate(), "Moreau", 1, "40.00")
	other := eventSource(node.Generate(), "Abebe", 2, "80.00")

	store := &stubStore{sources: []domain.BillableSource{kept, other}}
	svc := newTestService(store, nil)

	count := 2
	preview, err := svc.Preview(context.Background(), domain.DraftRequest{
		Mode:          invoicedomain.ModeEvent,
		Selected:      []snowflake.ID{kept.ID},
		EligibleCount: &count,
	})
	require.NoError(t, err)

	assert.Equal(t, []snowflake.ID{kept.ID}, preview.Selected, "deselection survives an unchanged population")
	assert.Equal(t, 2, preview.EligibleCount)
}

func TestPreview_StaleSelectionRecomputesDefaults(t *testing.T) {
	a := eventSource(node.Generate(), "Abebe", 1, "40.00")
	b := eventSource(node.Generate(), "Moreau", 2, "80.00")
	c := eventSource(node.Generate(), "Zhang", 3, "120.00")

	store := &stubStore{sources: []domain.BillableSource{a, b, c}}
	svc := newTestService(store, nil)

	// The selection was made when only one order was eligible; two more have
	// landed since, so the default selection must be recomputed.
	staleCount := 1
	preview, err := svc.Preview(context.Background(), domain.DraftRequest{
		Mode:          invoicedomain.ModeEvent,
		Selected:      []snowflake.ID{b.ID},
		EligibleCount: &staleCount,
	})
	require.NoError(t, err)

	assert.Len(t, preview.Selected, 3)
	assert.Equal(t, 3, preview.EligibleCount)
}

func TestPreview_SelectionWithoutCountFallsBackToDefaults(t *testing.T) {
	a := eventSource(node.Generate(), "Abebe", 1, "40.00")
	b := eventSource(node.Generate(), "Moreau", 2, "80.00")

	store := &stubStore{sources: []domain.BillableSource{a, b}}
	svc := newTestService(store, nil)

	preview, err := svc.Preview(context.Background(), domain.DraftRequest{
		Mode:     invoicedomain.ModeEvent,
		Selected: []snowflake.ID{a.ID},
	})
	require.NoError(t, err)

	assert.Len(t, preview.Selected, 2, "a selection without its count cannot be trusted")
}
