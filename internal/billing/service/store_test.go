package service

import (
	"context"
	"testing"
	"time"

	"github.com/brightpath/tutordesk/internal/billing/domain"
	enrollmentdomain "github.com/brightpath/tutordesk/internal/enrollment/domain"
	eventorderdomain "github.com/brightpath/tutordesk/internal/eventorder/domain"
	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	hubsessiondomain "github.com/brightpath/tutordesk/internal/hubsession/domain"
	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&familydomain.Family{},
		&enrollmentdomain.Enrollment{},
		&eventorderdomain.EventOrder{},
		&hubsessiondomain.HubSession{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
	)
	require.NoError(t, err)

	genID, err := snowflake.NewNode(3)
	require.NoError(t, err)

	store := NewStore(StoreParam{DB: gdb, Log: zap.NewNop(), GenID: genID}).(*Store)
	return store, gdb
}

func seedFamily(t *testing.T, gdb *gorm.DB, store *Store, name string) snowflake.ID {
	t.Helper()
	fam := familydomain.Family{
		ID:          store.genID.Generate(),
		DisplayName: name,
		ContactName: name,
		Email:       name + "@example.com",
		Status:      familydomain.FamilyStatusActive,
	}
	require.NoError(t, gdb.Create(&fam).Error)
	return fam.ID
}

func TestStore_ListBillableEnrollments(t *testing.T) {
	store, gdb := newTestStore(t)
	ctx := context.Background()

	famID := seedFamily(t, gdb, store, "Nguyen")
	active := enrollmentdomain.Enrollment{
		ID:               store.genID.Generate(),
		FamilyID:         famID,
		ServiceID:        store.genID.Generate(),
		ServiceCode:      servicedefdomain.ServiceCodeHourlyCoaching,
		BillingFrequency: servicedefdomain.FrequencyWeekly,
		HourlyRateCents:  4500,
		HoursPerWeek:     3,
		Status:           enrollmentdomain.EnrollmentStatusActive,
	}
	ended := active
	ended.ID = store.genID.Generate()
	ended.Status = enrollmentdomain.EnrollmentStatusEnded
	require.NoError(t, gdb.Create(&active).Error)
	require.NoError(t, gdb.Create(&ended).Error)

	sources, err := store.ListBillableEnrollments(ctx, domain.SourceFilter{})
	require.NoError(t, err)
	require.Len(t, sources, 1, "only active enrollments are billable")

	src := sources[0]
	assert.Equal(t, active.ID, src.ID)
	assert.Equal(t, "Nguyen", src.FamilyName)
	assert.True(t, src.HourlyRate.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, src.HoursPerWeek.Equal(decimal.NewFromInt(3)))
}

func TestStore_CreateInvoiceForFamily_MarksSourcesInvoiced(t *testing.T) {
	store, gdb := newTestStore(t)
	ctx := context.Background()

	famID := seedFamily(t, gdb, store, "Moreau")
	order := eventorderdomain.EventOrder{
		ID:             store.genID.Generate(),
		FamilyID:       &famID,
		PurchaserName:  "Moreau",
		PurchaserEmail: "moreau@example.com",
		EventName:      "Spring Recital",
		TicketQuantity: 2,
		TotalCents:     8000,
		OrderedAt:      time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(&order).Error)

	pending, err := store.ListPendingEventOrders(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	item := domain.PricedItem{
		Source:      pending[0],
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.RequireFromString("40.00"),
		FinalAmount: decimal.RequireFromString("80.00"),
	}
	created, err := store.CreateInvoiceForFamily(ctx, invoicedomain.ModeEvent, famID, []domain.PricedItem{item}, time.Now().UTC().AddDate(0, 0, 14), "")
	require.NoError(t, err)
	assert.Equal(t, int64(8000), created.TotalCents)

	// The order drops out of subsequent pending lists.
	pending, err = store.ListPendingEventOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	var lines []invoicedomain.InvoiceLine
	require.NoError(t, gdb.Where("invoice_id = ?", created.InvoiceID).Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, invoicedomain.SourceEventOrder, lines[0].SourceType)
	assert.Equal(t, order.ID, lines[0].SourceID)
	assert.Equal(t, int64(4000), lines[0].UnitCents)
}

func TestStore_CreateInvoiceBatch_RejectsDuplicatePeriod(t *testing.T) {
	store, gdb := newTestStore(t)
	ctx := context.Background()

	famID := seedFamily(t, gdb, store, "Okafor")
	period := domain.BillingPeriod{
		Start:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		DueDate: time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC),
	}
	item := domain.PricedItem{
		Source: domain.BillableSource{
			Kind:        domain.KindEnrollment,
			ID:          store.genID.Generate(),
			FamilyID:    famID,
			Description: "weekly tuition",
		},
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.RequireFromString("180.00"),
		FinalAmount: decimal.RequireFromString("180.00"),
	}

	created, err := store.CreateInvoiceBatch(ctx, []domain.PricedItem{item}, period)
	require.NoError(t, err)
	require.Len(t, created, 1)

	// Same family, same period: the unique index rejects and nothing lands.
	_, err = store.CreateInvoiceBatch(ctx, []domain.PricedItem{item}, period)
	assert.ErrorIs(t, err, domain.ErrDuplicateInvoice)

	var count int64
	require.NoError(t, gdb.Model(&invoicedomain.Invoice{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	periods, err := store.ListInvoicePeriods(ctx, []snowflake.ID{famID})
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, famID, periods[0].FamilyID)
}

func TestStore_ListInvoicePeriods_IgnoresVoided(t *testing.T) {
	store, gdb := newTestStore(t)
	ctx := context.Background()

	famID := seedFamily(t, gdb, store, "Silva")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, gdb.Create(&invoicedomain.Invoice{
		ID:          store.genID.Generate(),
		FamilyID:    famID,
		Mode:        invoicedomain.ModeRecurring,
		Status:      invoicedomain.InvoiceStatusVoid,
		PeriodStart: &start,
		PeriodEnd:   &end,
	}).Error)

	periods, err := store.ListInvoicePeriods(ctx, []snowflake.ID{famID})
	require.NoError(t, err)
	assert.Empty(t, periods, "voided invoices do not block re-billing")
}
