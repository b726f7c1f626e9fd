package draft

import (
	"time"

	"github.com/brightpath/tutordesk/internal/billing/domain"
	"github.com/bwmarrin/snowflake"
)

// FamilySet marks families flagged by the duplicate detector.
type FamilySet map[snowflake.ID]struct{}

// Has reports membership.
func (s FamilySet) Has(id snowflake.ID) bool {
	_, ok := s[id]
	return ok
}

// MarkDuplicates flags families that already hold an invoice whose period
// exactly matches the requested one. Overlapping-but-different periods do
// not count: the operator may legitimately bill a partial period alongside
// a full one.
func MarkDuplicates(existing []domain.InvoicePeriod, period domain.BillingPeriod) FamilySet {
	dup := make(FamilySet)
	for _, inv := range existing {
		if sameDay(inv.PeriodStart, period.Start) && sameDay(inv.PeriodEnd, period.End) {
			dup[inv.FamilyID] = struct{}{}
		}
	}
	return dup
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
