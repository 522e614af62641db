// Package shared holds pricing calculations used by sales documents.
package shared

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineTotals computes a line's gross subtotal and its net after the optional
// line discount percent. Percentages apply as exact decimals divided by 100.
func LineTotals(qty int, unitPrice, discountPct decimal.Decimal) (subtotal, net decimal.Decimal) {
	subtotal = unitPrice.Mul(decimal.NewFromInt(int64(qty)))
	net = subtotal
	if discountPct.IsPositive() {
		net = subtotal.Mul(decimal.NewFromInt(1).Sub(discountPct.Div(hundred)))
	}
	return subtotal, net.Round(2)
}

// OrderTotal applies the order-level percent discount and then the fixed
// discount to the summed line nets. The result is floored at zero: a discount
// may never invert a sale into a negative amount.
func OrderTotal(lineNetSum, globalPct, globalFixed decimal.Decimal) decimal.Decimal {
	total := lineNetSum
	if globalPct.IsPositive() {
		total = total.Mul(decimal.NewFromInt(1).Sub(globalPct.Div(hundred)))
	}
	total = total.Sub(globalFixed).Round(2)
	if total.IsNegative() {
		return decimal.Zero.Round(2)
	}
	return total
}
