// Package pricing computes tax-inclusive prices and order/cart totals.
//
// Amounts are rounded to two decimal places at the point where each one is
// computed; totals are sums of already rounded line amounts.
package pricing

import "github.com/shopspring/decimal"

// Places is the number of decimal places kept for monetary amounts.
const Places = 2

var hundred = decimal.NewFromInt(100)

// Round rounds an amount to Places decimals.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Places)
}

// PriceWithTax returns base × (1 + rate/100) rounded to two decimals.
func PriceWithTax(base, rate decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(decimal.NewFromInt(1).Add(rate.Div(hundred))))
}

// Line holds the amounts of one priced line.
type Line struct {
	UnitPriceWithTax decimal.Decimal
	Subtotal         decimal.Decimal
	Tax              decimal.Decimal
	Total            decimal.Decimal
}

// PriceLine prices quantity units of a product with the given base price and tax rate.
func PriceLine(base, rate decimal.Decimal, quantity int) Line {
	subtotal := base.Mul(decimal.NewFromInt(int64(quantity)))
	tax := subtotal.Mul(rate).Div(hundred)
	return Line{
		UnitPriceWithTax: PriceWithTax(base, rate),
		Subtotal:         Round(subtotal),
		Tax:              Round(tax),
		Total:            Round(subtotal.Add(tax)),
	}
}

// Totals aggregates priced lines.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Sum adds up lines and a shipping cost. Total = Subtotal + Tax + Shipping.
func Sum(lines []Line, shipping decimal.Decimal) Totals {
	totals := Totals{Subtotal: decimal.Zero, Tax: decimal.Zero, Shipping: Round(shipping)}
	for _, l := range lines {
		totals.Subtotal = totals.Subtotal.Add(l.Subtotal)
		totals.Tax = totals.Tax.Add(l.Tax)
	}
	totals.Total = totals.Subtotal.Add(totals.Tax).Add(totals.Shipping)
	return totals
}
