// Package pricing turns cart or order lines into subtotal, tax, shipping and
// total. It is the only place these numbers are derived; the cart view and
// checkout both call Calculate.
package pricing

import "github.com/shopspring/decimal"

var (
	// TaxRate is applied to the subtotal and rounded to a whole unit.
	TaxRate = decimal.RequireFromString("0.18")
	// FreeShippingThreshold: subtotals strictly above it ship free.
	FreeShippingThreshold = decimal.NewFromInt(500)
	// FlatShippingFee is charged at or below the threshold, including for
	// an empty cart.
	FlatShippingFee = decimal.NewFromInt(50)
)

// Line is one priced entry: a base price snapshot, a quantity and the price
// deltas of the selected variants.
type Line struct {
	BasePrice     float64
	Quantity      int
	VariantDeltas []float64
}

// Totals is the priced result.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// UnitPrice is the base price plus every variant delta.
func (l Line) UnitPrice() decimal.Decimal {
	unit := decimal.NewFromFloat(l.BasePrice)
	for _, d := range l.VariantDeltas {
		unit = unit.Add(decimal.NewFromFloat(d))
	}
	return unit
}

// Amount is UnitPrice × Quantity.
func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

// Subtotal returns Σ (basePrice + Σ variant) × quantity, unrounded.
func Subtotal(lines []Line) float64 {
	return subtotal(lines).InexactFloat64()
}

// Calculate prices lines. It has no error cases.
func Calculate(lines []Line) Totals {
	sub := subtotal(lines)
	// Round half away from zero; subtotals are never negative so this is
	// round-half-up.
	tax := sub.Mul(TaxRate).Round(0)

	shipping := FlatShippingFee
	if sub.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	t := Totals{
		Subtotal: sub.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
	}
	// Subtotal + Tax + Shipping == Total must hold on the float fields.
	t.Total = t.Subtotal + t.Tax + t.Shipping
	return t
}
