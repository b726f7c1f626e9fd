package draft

import (
	"sort"
	"strings"

	"github.com/brightpath/tutordesk/internal/billing/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ItemSet marks selected priced items by source ID.
type ItemSet map[snowflake.ID]struct{}

// NewItemSet builds a set from a slice of IDs.
func NewItemSet(ids []snowflake.ID) ItemSet {
	set := make(ItemSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s ItemSet) Has(id snowflake.ID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s ItemSet) IDs() []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GroupOptions controls draft-group ordering. Families flagged as
// duplicates always sort after the rest regardless of these toggles.
type GroupOptions struct {
	SortByTotal bool
	Desc        bool
}

// Group folds priced items into one group per family. A group's total sums
// only the selected items; unselected items stay visible in the group so the
// operator can re-include them. Unlinked sources are excluded.
func Group(items []domain.PricedItem, selected ItemSet, duplicates FamilySet, opts GroupOptions) []domain.DraftGroup {
	byFamily := make(map[snowflake.ID]*domain.DraftGroup)
	var order []snowflake.ID

	for _, item := range items {
		if !item.Source.Linked() {
			continue
		}
		fid := item.Source.FamilyID
		g, ok := byFamily[fid]
		if !ok {
			g = &domain.DraftGroup{
				FamilyID:           fid,
				FamilyName:         item.Source.FamilyName,
				Total:              decimal.Zero,
				HasExistingInvoice: duplicates.Has(fid),
			}
			byFamily[fid] = g
			order = append(order, fid)
		}
		g.Items = append(g.Items, item)
		if selected.Has(item.ID()) {
			g.Total = g.Total.Add(item.FinalAmount)
		}
	}

	groups := make([]domain.DraftGroup, 0, len(order))
	for _, fid := range order {
		groups = append(groups, *byFamily[fid])
	}
	sortGroups(groups, opts)
	return groups
}

func sortGroups(groups []domain.DraftGroup, opts GroupOptions) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.HasExistingInvoice != b.HasExistingInvoice {
			return !a.HasExistingInvoice
		}
		if opts.SortByTotal {
			if !a.Total.Equal(b.Total) {
				if opts.Desc {
					return a.Total.GreaterThan(b.Total)
				}
				return a.Total.LessThan(b.Total)
			}
			return lessName(a.FamilyName, b.FamilyName)
		}
		if a.FamilyName != b.FamilyName {
			if opts.Desc {
				return lessName(b.FamilyName, a.FamilyName)
			}
			return lessName(a.FamilyName, b.FamilyName)
		}
		return a.Total.LessThan(b.Total)
	})
}

func lessName(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

// DefaultSelection selects every linked item whose family is not flagged as
// a duplicate. When a previous selection exists and the eligible count has
// not changed, the previous selection is kept verbatim so operator
// deselections survive re-pricing; any change in the eligible population
// recomputes from scratch.
func DefaultSelection(items []domain.PricedItem, duplicates FamilySet, prev ItemSet, prevEligible int) (ItemSet, int) {
	eligible := 0
	fresh := make(ItemSet)
	for _, item := range items {
		if !item.Source.Linked() || duplicates.Has(item.Source.FamilyID) {
			continue
		}
		eligible++
		fresh[item.ID()] = struct{}{}
	}
	if prev != nil && eligible == prevEligible {
		return prev, eligible
	}
	return fresh, eligible
}
