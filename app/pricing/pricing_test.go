package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/unistore/app/pricing"
)

func TestCalculateScenarios(t *testing.T) {
	tests := []struct {
		name  string
		lines []pricing.Line
		want  pricing.Totals
	}{
		{
			name:  "above threshold ships free",
			lines: []pricing.Line{{BasePrice: 400, Quantity: 2}},
			want:  pricing.Totals{Subtotal: 800, Tax: 144, Shipping: 0, Total: 944},
		},
		{
			name:  "below threshold pays flat fee",
			lines: []pricing.Line{{BasePrice: 200, Quantity: 1}},
			want:  pricing.Totals{Subtotal: 200, Tax: 36, Shipping: 50, Total: 286},
		},
		{
			name:  "exactly at threshold still pays",
			lines: []pricing.Line{{BasePrice: 250, Quantity: 2}},
			want:  pricing.Totals{Subtotal: 500, Tax: 90, Shipping: 50, Total: 640},
		},
		{
			name:  "empty cart is charged shipping",
			lines: nil,
			want:  pricing.Totals{Subtotal: 0, Tax: 0, Shipping: 50, Total: 50},
		},
		{
			name: "variant deltas are added per unit",
			lines: []pricing.Line{
				{BasePrice: 100, Quantity: 3, VariantDeltas: []float64{20, 5}},
				{BasePrice: 99.5, Quantity: 1},
			},
			// 125*3 + 99.5 = 474.5 ; tax 85.41 -> 85
			want: pricing.Totals{Subtotal: 474.5, Tax: 85, Shipping: 50, Total: 609.5},
		},
		{
			name:  "tax rounds half up",
			lines: []pricing.Line{{BasePrice: 25, Quantity: 1}},
			// 25 * 0.18 = 4.5 -> 5
			want: pricing.Totals{Subtotal: 25, Tax: 5, Shipping: 50, Total: 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.Calculate(tt.lines))
		})
	}
}

func TestTotalIsExactSum(t *testing.T) {
	samples := [][]pricing.Line{
		{{BasePrice: 0.1, Quantity: 3}},
		{{BasePrice: 19.99, Quantity: 7, VariantDeltas: []float64{0.01}}},
		{{BasePrice: 333.33, Quantity: 1}, {BasePrice: 166.67, Quantity: 1}},
		{{BasePrice: 1234.56, Quantity: 4, VariantDeltas: []float64{10.1, 0.35}}},
	}
	for cents := int64(1); cents < 100000; cents++ {
		price := decimal.New(cents, -2).InexactFloat64()
		samples = append(samples, []pricing.Line{{BasePrice: price, Quantity: 1}})
	}

	mismatches := 0
	for _, lines := range samples {
		got := pricing.Calculate(lines)
		if got.Subtotal+got.Tax+got.Shipping != got.Total {
			mismatches++
			t.Logf("base=%v sub=%v tax=%v ship=%v total=%v", lines[0].BasePrice, got.Subtotal, got.Tax, got.Shipping, got.Total)
		}
		if got.Subtotal != pricing.Subtotal(lines) {
			t.Fatalf("Subtotal and Calculate disagree for %+v", lines)
		}
	}
	assert.Zero(t, mismatches)
}

func TestTotalKeepsCents(t *testing.T) {
	got := pricing.Calculate([]pricing.Line{{BasePrice: 3.02, Quantity: 1}})

	assert.Equal(t, 3.02, got.Subtotal)
	assert.Equal(t, 1.0, got.Tax)
	assert.InDelta(t, 54.02, got.Total, 1e-9)
}

func TestLineUnitPrice(t *testing.T) {
	l := pricing.Line{BasePrice: 10, Quantity: 2, VariantDeltas: []float64{1.5, 2}}

	assert.Equal(t, "13.5", l.UnitPrice().String())
	assert.Equal(t, "27", l.Amount().String())
}
