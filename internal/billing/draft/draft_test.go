package draft

import (
	"testing"
	"time"

	"github.com/brightpath/tutordesk/internal/billing/domain"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var node, _ = snowflake.NewNode(1)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func enrollmentSource(familyID snowflake.ID, name string, code servicedefdomain.ServiceCode, freq servicedefdomain.BillingFrequency) domain.BillableSource {
	return domain.BillableSource{
		Kind:        domain.KindEnrollment,
		ID:          node.Generate(),
		FamilyID:    familyID,
		FamilyName:  name,
		ServiceCode: code,
		Frequency:   freq,
	}
}

func TestResolve_HourlyCoaching(t *testing.T) {
	src := enrollmentSource(node.Generate(), "Nguyen", servicedefdomain.ServiceCodeHourlyCoaching, servicedefdomain.FrequencyWeekly)
	src.HoursPerWeek = dec("3")
	src.HourlyRate = dec("45.00")

	qty, unit := Resolve(src)
	assert.True(t, qty.Equal(dec("3")))
	assert.True(t, unit.Equal(dec("45.00")))
}

func TestResolve_WeeklyByCodeAndFrequency(t *testing.T) {
	byCode := enrollmentSource(node.Generate(), "Okafor", servicedefdomain.ServiceCodeWeeklyTuition, servicedefdomain.FrequencyWeekly)
	byCode.WeeklyRate = dec("180.00")
	qty, unit := Resolve(byCode)
	assert.True(t, qty.Equal(dec("1")))
	assert.True(t, unit.Equal(dec("180.00")))

	// Unknown code with a weekly cadence still bills the weekly rate.
	byFreq := enrollmentSource(node.Generate(), "Okafor", "custom_intensive", servicedefdomain.FrequencyWeekly)
	byFreq.WeeklyRate = dec("210.00")
	byFreq.MonthlyRate = dec("999.00")
	qty, unit = Resolve(byFreq)
	assert.True(t, qty.Equal(dec("1")))
	assert.True(t, unit.Equal(dec("210.00")))
}

func TestResolve_PerSessionDefaultsTo100(t *testing.T) {
	src := enrollmentSource(node.Generate(), "Silva", servicedefdomain.ServiceCodeHubPerSession, servicedefdomain.FrequencyPerSession)
	qty, unit := Resolve(src)
	assert.True(t, qty.Equal(dec("1")))
	assert.True(t, unit.Equal(dec("100")), "unset daily rate falls back to the documented default")

	src.DailyRate = dec("85.00")
	_, unit = Resolve(src)
	assert.True(t, unit.Equal(dec("85.00")))
}

func TestResolve_PodAndMonthlyFallback(t *testing.T) {
	pod := enrollmentSource(node.Generate(), "Haddad", servicedefdomain.ServiceCodePod, servicedefdomain.FrequencyMonthly)
	pod.DailyRate = dec("60.00")
	pod.MonthlyRate = dec("1200.00")
	qty, unit := Resolve(pod)
	assert.True(t, qty.Equal(dec("1")))
	assert.True(t, unit.Equal(dec("60.00")))

	other := enrollmentSource(node.Generate(), "Haddad", servicedefdomain.ServiceCodeHomeworkClub, servicedefdomain.FrequencyMonthly)
	other.MonthlyRate = dec("95.00")
	qty, unit = Resolve(other)
	assert.True(t, qty.Equal(dec("1")))
	assert.True(t, unit.Equal(dec("95.00")))
}

func TestResolve_EventOrderChargeIsAuthoritative(t *testing.T) {
	src := domain.BillableSource{
		Kind:           domain.KindEventOrder,
		ID:             node.Generate(),
		FamilyID:       node.Generate(),
		TicketQuantity: 3,
		TotalCharge:    dec("100.00"),
	}
	qty, unit := Resolve(src)
	assert.True(t, qty.Equal(dec("3")))
	assert.True(t, unit.Equal(dec("33.33")), "unit price is derived and rounded, the charge stays authoritative")
}

func TestResolve_HubSession(t *testing.T) {
	src := domain.BillableSource{
		Kind:      domain.KindHubSession,
		ID:        node.Generate(),
		FamilyID:  node.Generate(),
		DailyRate: dec("110.00"),
	}
	qty, unit := Resolve(src)
	assert.True(t, qty.Equal(dec("1")))
	assert.True(t, unit.Equal(dec("110.00")))
}

func TestPrice_OverridePrecedence(t *testing.T) {
	fid := node.Generate()
	a := enrollmentSource(fid, "Nguyen", servicedefdomain.ServiceCodeHourlyCoaching, servicedefdomain.FrequencyWeekly)
	a.HoursPerWeek = dec("2")
	a.HourlyRate = dec("50.00")
	b := enrollmentSource(fid, "Nguyen", servicedefdomain.ServiceCodeHourlyCoaching, servicedefdomain.FrequencyWeekly)
	b.HoursPerWeek = dec("2")
	b.HourlyRate = dec("50.00")

	four := dec("4")
	items, err := Price([]domain.BillableSource{a, b}, PriceOptions{
		GlobalQuantity: map[servicedefdomain.ServiceCode]decimal.Decimal{
			servicedefdomain.ServiceCodeHourlyCoaching: dec("3"),
		},
		Overrides: map[snowflake.ID]domain.DraftOverride{
			a.ID: {Quantity: &four},
		},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Explicit override beats the global quantity and flags the item.
	assert.True(t, items[0].Quantity.Equal(dec("4")))
	assert.True(t, items[0].FinalAmount.Equal(dec("200.00")))
	assert.True(t, items[0].Overridden)

	// The global quantity adjusts silently.
	assert.True(t, items[1].Quantity.Equal(dec("3")))
	assert.True(t, items[1].FinalAmount.Equal(dec("150.00")))
	assert.False(t, items[1].Overridden)
}

func TestPrice_AmountEditDerivesUnitPrice(t *testing.T) {
	src := enrollmentSource(node.Generate(), "Silva", servicedefdomain.ServiceCodeHourlyCoaching, servicedefdomain.FrequencyWeekly)
	src.HoursPerWeek = dec("4")
	src.HourlyRate = dec("40.00")

	items, err := Price([]domain.BillableSource{src}, PriceOptions{
		AmountEdits: map[snowflake.ID]decimal.Decimal{src.ID: dec("50.00")},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.True(t, items[0].FinalAmount.Equal(dec("50.00")))
	assert.True(t, items[0].UnitPrice.Equal(dec("12.50")))
	assert.True(t, items[0].Overridden)
}

func TestPrice_NegativeOverrideRejected(t *testing.T) {
	src := enrollmentSource(node.Generate(), "Silva", servicedefdomain.ServiceCodeWeeklyTuition, servicedefdomain.FrequencyWeekly)
	src.WeeklyRate = dec("100.00")

	neg := dec("-1")
	_, err := Price([]domain.BillableSource{src}, PriceOptions{
		Overrides: map[snowflake.ID]domain.DraftOverride{src.ID: {UnitPrice: &neg}},
	})
	assert.ErrorIs(t, err, domain.ErrNegativeOverride)
}

func TestImpliedUnitPrice(t *testing.T) {
	assert.True(t, ImpliedUnitPrice(dec("50.00"), dec("4")).Equal(dec("12.50")))
	assert.True(t, ImpliedUnitPrice(dec("10.00"), dec("3")).Equal(dec("3.33")))
	assert.True(t, ImpliedUnitPrice(dec("25.00"), dec("0")).Equal(dec("25.00")))
}

func TestMarkDuplicates_ExactPeriodOnly(t *testing.T) {
	famA := node.Generate()
	famB := node.Generate()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	existing := []domain.InvoicePeriod{
		{FamilyID: famA, PeriodStart: start, PeriodEnd: end},
		// Overlapping but shorter period does not flag.
		{FamilyID: famB, PeriodStart: start, PeriodEnd: start.AddDate(0, 0, 14)},
	}

	dup := MarkDuplicates(existing, domain.BillingPeriod{Start: start, End: end})
	assert.True(t, dup.Has(famA))
	assert.False(t, dup.Has(famB))
}

func pricedItem(familyID snowflake.ID, name, amount string) domain.PricedItem {
	return domain.PricedItem{
		Source: domain.BillableSource{
			Kind:       domain.KindEnrollment,
			ID:         node.Generate(),
			FamilyID:   familyID,
			FamilyName: name,
		},
		Quantity:    dec("1"),
		UnitPrice:   dec(amount),
		FinalAmount: dec(amount),
	}
}

func TestGroup_SortsByNameWithDuplicatesLast(t *testing.T) {
	famA := node.Generate()
	famB := node.Generate()
	famC := node.Generate()

	items := []domain.PricedItem{
		pricedItem(famC, "Zhang", "100.00"),
		pricedItem(famA, "Abebe", "50.00"),
		pricedItem(famB, "Moreau", "75.00"),
	}
	selected := NewItemSet([]snowflake.ID{items[0].ID(), items[1].ID(), items[2].ID()})
	dup := FamilySet{famA: {}}

	groups := Group(items, selected, dup, GroupOptions{})
	require.Len(t, groups, 3)
	assert.Equal(t, "Moreau", groups[0].FamilyName)
	assert.Equal(t, "Zhang", groups[1].FamilyName)
	assert.Equal(t, "Abebe", groups[2].FamilyName, "duplicate families sort last regardless of name")
	assert.True(t, groups[2].HasExistingInvoice)
}

func TestGroup_TotalSumsSelectedOnly(t *testing.T) {
	fam := node.Generate()
	a := pricedItem(fam, "Nguyen", "60.00")
	b := pricedItem(fam, "Nguyen", "40.00")

	groups := Group([]domain.PricedItem{a, b}, NewItemSet([]snowflake.ID{a.ID()}), FamilySet{}, GroupOptions{})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Items, 2, "deselected items stay visible in the group")
	assert.True(t, groups[0].Total.Equal(dec("60.00")))
}

func TestGroup_SortByTotal(t *testing.T) {
	famA := node.Generate()
	famB := node.Generate()
	items := []domain.PricedItem{
		pricedItem(famA, "Abebe", "200.00"),
		pricedItem(famB, "Moreau", "50.00"),
	}
	selected := NewItemSet([]snowflake.ID{items[0].ID(), items[1].ID()})

	groups := Group(items, selected, FamilySet{}, GroupOptions{SortByTotal: true})
	assert.Equal(t, "Moreau", groups[0].FamilyName)

	groups = Group(items, selected, FamilySet{}, GroupOptions{SortByTotal: true, Desc: true})
	assert.Equal(t, "Abebe", groups[0].FamilyName)
}

func TestGroup_SkipsUnlinked(t *testing.T) {
	linked := pricedItem(node.Generate(), "Nguyen", "10.00")
	unlinked := domain.PricedItem{
		Source:      domain.BillableSource{Kind: domain.KindEventOrder, ID: node.Generate()},
		Quantity:    dec("1"),
		UnitPrice:   dec("30.00"),
		FinalAmount: dec("30.00"),
	}

	groups := Group([]domain.PricedItem{linked, unlinked}, NewItemSet([]snowflake.ID{linked.ID(), unlinked.ID()}), FamilySet{}, GroupOptions{})
	require.Len(t, groups, 1)
	assert.Equal(t, "Nguyen", groups[0].FamilyName)
}

func TestDefaultSelection_StickyUntilEligibleCountChanges(t *testing.T) {
	famA := node.Generate()
	famB := node.Generate()
	a := pricedItem(famA, "Abebe", "10.00")
	b := pricedItem(famB, "Moreau", "20.00")
	items := []domain.PricedItem{a, b}

	fresh, count := DefaultSelection(items, FamilySet{}, nil, -1)
	assert.Equal(t, 2, count)
	assert.True(t, fresh.Has(a.ID()))
	assert.True(t, fresh.Has(b.ID()))

	// Operator deselects one item; a re-price with the same population keeps
	// that choice.
	operator := NewItemSet([]snowflake.ID{a.ID()})
	kept, count := DefaultSelection(items, FamilySet{}, operator, 2)
	assert.Equal(t, 2, count)
	assert.False(t, kept.Has(b.ID()))

	// New eligible item arrives: the selection recomputes from scratch.
	c := pricedItem(node.Generate(), "Zhang", "30.00")
	recomputed, count := DefaultSelection(append(items, c), FamilySet{}, operator, 2)
	assert.Equal(t, 3, count)
	assert.True(t, recomputed.Has(b.ID()))
	assert.True(t, recomputed.Has(c.ID()))
}

func TestDefaultSelection_ExcludesDuplicatesAndUnlinked(t *testing.T) {
	famDup := node.Generate()
	dupItem := pricedItem(famDup, "Abebe", "10.00")
	okItem := pricedItem(node.Generate(), "Moreau", "20.00")
	unlinked := domain.PricedItem{
		Source: domain.BillableSource{Kind: domain.KindHubSession, ID: node.Generate()},
	}

	set, count := DefaultSelection([]domain.PricedItem{dupItem, okItem, unlinked}, FamilySet{famDup: {}}, nil, -1)
	assert.Equal(t, 1, count)
	assert.True(t, set.Has(okItem.ID()))
	assert.False(t, set.Has(dupItem.ID()))
	assert.False(t, set.Has(unlinked.ID()))
}

func TestMoneyConversions(t *testing.T) {
	assert.True(t, CentsToDecimal(12345).Equal(dec("123.45")))
	assert.Equal(t, int64(12345), DecimalToCents(dec("123.45")))
	assert.Equal(t, int64(1000), DecimalToCents(dec("9.995")), "half rounds away from zero")
}

func TestGroup_RepeatedCallsProduceIdenticalGroups(t *testing.T) {
	famA := node.Generate()
	famB := node.Generate()
	famC := node.Generate()

	items := []domain.PricedItem{
		pricedItem(famB, "Moreau", "75.00"),
		pricedItem(famA, "Abebe", "50.00"),
		pricedItem(famB, "Moreau", "25.00"),
		pricedItem(famC, "Zhang", "100.00"),
	}
	selected := NewItemSet([]snowflake.ID{items[0].ID(), items[1].ID(), items[3].ID()})
	dup := FamilySet{famC: {}}

	first := Group(items, selected, dup, GroupOptions{})
	second := Group(items, selected, dup, GroupOptions{})

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].FamilyID, second[i].FamilyID, "membership and ordering must not drift")
		assert.Equal(t, first[i].FamilyName, second[i].FamilyName)
		assert.Equal(t, first[i].HasExistingInvoice, second[i].HasExistingInvoice)
		require.Equal(t, len(first[i].Items), len(second[i].Items))
		for j := range first[i].Items {
			assert.Equal(t, first[i].Items[j].ID(), second[i].Items[j].ID())
		}
		assert.True(t, first[i].Total.Equal(second[i].Total))
	}

	byTotal := Group(items, selected, dup, GroupOptions{SortByTotal: true, Desc: true})
	byTotalAgain := Group(items, selected, dup, GroupOptions{SortByTotal: true, Desc: true})
	require.Equal(t, len(byTotal), len(byTotalAgain))
	for i := range byTotal {
		assert.Equal(t, byTotal[i].FamilyID, byTotalAgain[i].FamilyID)
	}
}
