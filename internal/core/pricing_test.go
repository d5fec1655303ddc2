package core_test

import (
	"math"
	"testing"

	"github.com/primecut-foods/butchery-api/internal/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestItemTotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		price    float64
		discount float64
		want     float64
	}{
		{"no discount", 2, 12.5, 0, 25.0},
		{"ten percent off", 3, 15.8, 10, 42.66},
		{"full discount", 1, 100, 100, 0},
		{"fractional quantity", 0.5, 18, 0, 9},
		{"zero price", 4, 0, 0, 0},
		{"NaN quantity degrades", math.NaN(), 10, 0, 0},
		{"Inf quantity degrades", math.Inf(1), 10, 0, 0},
		{"negative quantity degrades", -1, 10, 0, 0},
		{"zero quantity degrades", 0, 10, 0, 0},
		{"NaN price degrades", 2, math.NaN(), 0, 0},
		{"negative price degrades", 2, -3, 0, 0},
		{"negative discount clamped", 2, 10, -5, 20},
		{"NaN discount treated as zero", 2, 10, math.NaN(), 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ItemTotal(tt.quantity, tt.price, tt.discount)
			if !almostEqual(got, tt.want) {
				t.Errorf("ItemTotal(%v, %v, %v) = %v, want %v", tt.quantity, tt.price, tt.discount, got, tt.want)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("ItemTotal returned non-finite value %v", got)
			}
		})
	}
}

func TestItemTotalAlwaysFinite(t *testing.T) {
	// Even pathological combinations must price to a finite number.
	inputs := []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1, 0, 1e308}
	for _, q := range inputs {
		for _, p := range inputs {
			for _, d := range inputs {
				got := core.ItemTotal(q, p, d)
				if math.IsNaN(got) || math.IsInf(got, 0) {
					t.Fatalf("ItemTotal(%v, %v, %v) = %v, not finite", q, p, d, got)
				}
			}
		}
	}
}

func TestOrderSubtotalAndTotal(t *testing.T) {
	items := []core.OrderItem{
		{Total: 25.0},
		{Total: 47.4},
	}

	subtotal := core.OrderSubtotal(items)
	if !almostEqual(subtotal, 72.4) {
		t.Errorf("OrderSubtotal = %v, want 72.4", subtotal)
	}

	total := core.OrderTotal(subtotal, 10)
	if !almostEqual(total, 65.16) {
		t.Errorf("OrderTotal(%v, 10) = %v, want 65.16", subtotal, total)
	}
}

func TestOrderSubtotalIgnoresNonFinite(t *testing.T) {
	items := []core.OrderItem{
		{Total: 10},
		{Total: math.NaN()},
		{Total: math.Inf(1)},
		{Total: 5},
	}
	if got := core.OrderSubtotal(items); !almostEqual(got, 15) {
		t.Errorf("OrderSubtotal = %v, want 15", got)
	}
}

func TestOrderTotalDegradation(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		discount float64
		want     float64
	}{
		{"no discount", 100, 0, 100},
		{"half off", 100, 50, 50},
		{"negative discount clamped", 100, -10, 100},
		{"NaN discount treated as zero", 80, math.NaN(), 80},
		{"NaN subtotal degrades", math.NaN(), 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.OrderTotal(tt.subtotal, tt.discount); !almostEqual(got, tt.want) {
				t.Errorf("OrderTotal(%v, %v) = %v, want %v", tt.subtotal, tt.discount, got, tt.want)
			}
		})
	}
}

func TestReprice(t *testing.T) {
	order := &core.Order{
		OrderDiscount: 10,
		Items: []core.OrderItem{
			{Quantity: 2, UnitPrice: 12.5, Discount: 0},
			{Quantity: 3, UnitPrice: 15.8, Discount: 10},
		},
	}

	core.Reprice(order)

	if !almostEqual(order.Items[0].Total, 25.0) {
		t.Errorf("first item total = %v, want 25.0", order.Items[0].Total)
	}
	if !almostEqual(order.Items[1].Total, 42.66) {
		t.Errorf("second item total = %v, want 42.66", order.Items[1].Total)
	}
	if !almostEqual(order.Subtotal, 67.66) {
		t.Errorf("subtotal = %v, want 67.66", order.Subtotal)
	}
	if !almostEqual(order.Total, 60.894) {
		t.Errorf("total = %v, want 60.894", order.Total)
	}
}

func TestSanitizeNumeric(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		def  float64
		pred func(float64) bool
		want float64
	}{
		{"finite passthrough", 3.5, 0, nil, 3.5},
		{"NaN to default", math.NaN(), 7, nil, 7},
		{"positive Inf to default", math.Inf(1), 0, nil, 0},
		{"negative Inf to default", math.Inf(-1), 0, nil, 0},
		{"predicate rejects", -2, 0, core.Positive, 0},
		{"predicate accepts", 2, 0, core.Positive, 2},
		{"zero passes NonNegative", 0, 9, core.NonNegative, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.SanitizeNumeric(tt.v, tt.def, tt.pred); got != tt.want {
				t.Errorf("SanitizeNumeric = %v, want %v", got, tt.want)
			}
		})
	}
}
