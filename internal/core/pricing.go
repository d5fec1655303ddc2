package core

import "math"

// Pricing never fails: invalid numeric input degrades to a safe default so
// a live-edited draft always prices to something renderable.

// SanitizeNumeric returns v when it is finite and satisfies pred,
// otherwise def.
func SanitizeNumeric(v, def float64, pred func(float64) bool) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	if pred != nil && !pred(v) {
		return def
	}
	return v
}

// Positive reports whether v > 0. Predicate for SanitizeNumeric.
func Positive(v float64) bool { return v > 0 }

// NonNegative reports whether v >= 0. Predicate for SanitizeNumeric.
func NonNegative(v float64) bool { return v >= 0 }

// ItemTotal computes a line total: quantity * unitPrice less a percentage
// discount. A non-positive or non-finite quantity, or a negative or
// non-finite unit price, yields 0. A negative or non-finite discount is
// treated as 0. The result is always finite.
func ItemTotal(quantity, unitPrice, discountPct float64) float64 {
	quantity = SanitizeNumeric(quantity, 0, Positive)
	unitPrice = SanitizeNumeric(unitPrice, 0, NonNegative)
	if quantity == 0 {
		return 0
	}
	discountPct = SanitizeNumeric(discountPct, 0, NonNegative)

	subtotal := quantity * unitPrice
	total := subtotal - subtotal*discountPct/100
	return SanitizeNumeric(total, 0, nil)
}

// OrderSubtotal sums item totals, treating non-finite entries as 0.
func OrderSubtotal(items []OrderItem) float64 {
	sum := 0.0
	for _, item := range items {
		sum += SanitizeNumeric(item.Total, 0, nil)
	}
	return SanitizeNumeric(sum, 0, nil)
}

// OrderTotal applies the order-level percentage discount to a subtotal,
// with the same degradation rules as ItemTotal.
func OrderTotal(subtotal, orderDiscountPct float64) float64 {
	subtotal = SanitizeNumeric(subtotal, 0, nil)
	orderDiscountPct = SanitizeNumeric(orderDiscountPct, 0, NonNegative)

	total := subtotal - subtotal*orderDiscountPct/100
	return SanitizeNumeric(total, 0, nil)
}

// Reprice recomputes every derived monetary field on an order draft in
// place: each item total, the subtotal and the discounted total.
func Reprice(order *Order) {
	for i := range order.Items {
		order.Items[i].Total = ItemTotal(order.Items[i].Quantity, order.Items[i].UnitPrice, order.Items[i].Discount)
	}
	order.Subtotal = OrderSubtotal(order.Items)
	order.Total = OrderTotal(order.Subtotal, order.OrderDiscount)
}
