package draft

import (
	"fmt"

	"github.com/brightpath/tutordesk/internal/billing/domain"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PriceOptions carries the operator adjustments for one draft run.
// Precedence per item: explicit override, then the global quantity for the
// item's service code, then the resolver base. Only explicit overrides and
// amount edits flag an item as overridden.
type PriceOptions struct {
	Overrides      map[snowflake.ID]domain.DraftOverride
	AmountEdits    map[snowflake.ID]decimal.Decimal
	GlobalQuantity map[servicedefdomain.ServiceCode]decimal.Decimal
}

// Price resolves and adjusts every source into a priced item, preserving
// input order. Negative quantities, unit prices, or amounts reject the whole
// run.
func Price(sources []domain.BillableSource, opts PriceOptions) ([]domain.PricedItem, error) {
	items := make([]domain.PricedItem, 0, len(sources))
	for _, src := range sources {
		item, err := priceOne(src, opts)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func priceOne(src domain.BillableSource, opts PriceOptions) (domain.PricedItem, error) {
	qty, unit := Resolve(src)
	overridden := false

	if g, ok := opts.GlobalQuantity[src.ServiceCode]; ok && src.Kind == domain.KindEnrollment {
		qty = g
	}
	if ov, ok := opts.Overrides[src.ID]; ok {
		if ov.Quantity != nil {
			qty = *ov.Quantity
			overridden = true
		}
		if ov.UnitPrice != nil {
			unit = *ov.UnitPrice
			overridden = true
		}
	}

	amount := qty.Mul(unit)

	// An amount edit wins over everything: the total is pinned and the unit
	// price is re-derived from it.
	if edit, ok := opts.AmountEdits[src.ID]; ok {
		amount = edit
		unit = ImpliedUnitPrice(edit, qty)
		overridden = true
	}

	if qty.IsNegative() || unit.IsNegative() || amount.IsNegative() {
		return domain.PricedItem{}, fmt.Errorf("%w: source %d", domain.ErrNegativeOverride, src.ID)
	}

	return domain.PricedItem{
		Source:      src,
		Quantity:    qty,
		UnitPrice:   unit,
		FinalAmount: amount,
		Overridden:  overridden,
	}, nil
}

// ImpliedUnitPrice back-derives a unit price from an edited total so the
// quantity times unit-price presentation stays consistent. Rounded to the
// cent; a non-positive quantity pins the unit price to the amount itself.
func ImpliedUnitPrice(amount, quantity decimal.Decimal) decimal.Decimal {
	if !quantity.IsPositive() {
		return amount
	}
	return amount.Div(quantity).Round(2)
}
