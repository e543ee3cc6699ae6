package pricing

import (
	"math"
	"sort"

	"fusefi/internal/model"

	"github.com/shopspring/decimal"
)

// Tier is one duration-discount band. MoreThanDays is a strict lower
// bound: a rental qualifies only when rentalDays > MoreThanDays, so a
// 7-day rental earns nothing from the {7, 10%} tier but an 8-day one does.
type Tier struct {
	MoreThanDays int   `json:"moreThanDays"`
	Percent      int64 `json:"percent"`
}

// DefaultTiers returns the standard duration-discount schedule.
func DefaultTiers() []Tier {
	return []Tier{
		{MoreThanDays: 30, Percent: 20},
		{MoreThanDays: 14, Percent: 15},
		{MoreThanDays: 7, Percent: 10},
	}
}

// RentalDays counts calendar days inclusive of both the start and end
// day, so a one-day event (start == end) yields 1. A window missing
// either bound yields 0. The +1 inclusive convention affects billing
// and must not change.
func RentalDays(w model.EventWindow) int {
	if w.Start == nil || w.End == nil {
		return 0
	}
	days := int(math.Ceil(w.End.Sub(*w.Start).Hours()/24)) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Calculator computes quotes from cart snapshots. It is stateless apart
// from its tier schedule and safe for concurrent use.
type Calculator struct {
	tiers []Tier
}

// NewCalculator creates a calculator with the given tiers, falling back
// to the defaults when none are supplied. Tiers are evaluated from the
// longest bound down.
func NewCalculator(tiers []Tier) *Calculator {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MoreThanDays > sorted[j].MoreThanDays
	})
	return &Calculator{tiers: sorted}
}

// DiscountPercent returns the duration discount for a rental length.
func (c *Calculator) DiscountPercent(rentalDays int) int64 {
	for _, t := range c.tiers {
		if rentalDays > t.MoreThanDays {
			return t.Percent
		}
	}
	return 0
}

// LineTotal prices one cart entry: daily rate x quantity x rental days.
func LineTotal(item model.CartItem, rentalDays int) decimal.Decimal {
	return item.Product.DailyRate.
		Mul(decimal.NewFromInt(int64(item.Quantity))).
		Mul(decimal.NewFromInt(int64(rentalDays)))
}

// Quote derives all pricing from the current cart state. Intermediate
// values are never rounded; the discount is taken from the unrounded
// subtotal. Display rounding to 2 fraction digits is the caller's job.
func (c *Calculator) Quote(cart *model.Cart) model.Quote {
	days := RentalDays(cart.EventWindow)

	subtotal := decimal.Zero
	itemCount := 0
	for _, item := range cart.Items {
		subtotal = subtotal.Add(LineTotal(item, days))
		itemCount += item.Quantity
	}

	percent := c.DiscountPercent(days)
	discount := decimal.Zero
	if percent > 0 {
		discount = subtotal.Mul(decimal.NewFromInt(percent)).Div(decimal.NewFromInt(100))
	}

	shipping := decimal.Zero
	if cart.ShippingOption != nil {
		shipping = cart.ShippingOption.BasePrice
	}

	return model.Quote{
		RentalDays:      days,
		ItemCount:       itemCount,
		Subtotal:        subtotal,
		DiscountPercent: percent,
		DiscountAmount:  discount,
		ShippingCost:    shipping,
		Total:           subtotal.Sub(discount).Add(shipping),
	}
}
