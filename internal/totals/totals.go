// Package totals derives line, document and payment totals for quotations and invoices.
// Values are computed as decimals and converted to float64 on return.
package totals

import (
	"github.com/emeena/quotation-api/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	advanceShare = decimal.RequireFromString("0.6")
	balanceShare = decimal.RequireFromString("0.4")
)

// Result is the outcome of a totals calculation
type Result struct {
	LineTotals []float64
	SubTotal   float64
	TaxAmount  float64
	GrandTotal float64
}

// LineTotal returns quantity * unitPrice
func LineTotal(quantity, unitPrice float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitPrice)).InexactFloat64()
}

// Calculate computes line totals, subtotal, tax and grand total.
// The grand total is not clamped and goes negative when the discount exceeds
// subtotal plus tax.
func Calculate(items []domain.LineItem, taxRatePercent, discountAmount float64) Result {
	res := Result{LineTotals: make([]float64, len(items))}

	sub := decimal.Zero
	for i, item := range items {
		line := decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.UnitPrice))
		res.LineTotals[i] = line.InexactFloat64()
		sub = sub.Add(line)
	}

	tax := taxOn(sub, taxRatePercent)
	res.SubTotal = sub.InexactFloat64()
	res.TaxAmount = tax.InexactFloat64()
	res.GrandTotal = sub.Add(tax).Sub(decimal.NewFromFloat(discountAmount)).InexactFloat64()
	return res
}

// GrandTotal returns subTotal + subTotal*taxRatePercent/100 - discountAmount
func GrandTotal(subTotal, taxRatePercent, discountAmount float64) float64 {
	sub := decimal.NewFromFloat(subTotal)
	return sub.Add(taxOn(sub, taxRatePercent)).Sub(decimal.NewFromFloat(discountAmount)).InexactFloat64()
}

// AdvancePayment is the 60% share of an invoice due up front
func AdvancePayment(grandTotal float64) float64 {
	return decimal.NewFromFloat(grandTotal).Mul(advanceShare).InexactFloat64()
}

// BalancePayment is the remaining 40% share of an invoice
func BalancePayment(grandTotal float64) float64 {
	return decimal.NewFromFloat(grandTotal).Mul(balanceShare).InexactFloat64()
}

func taxOn(sub decimal.Decimal, taxRatePercent float64) decimal.Decimal {
	return sub.Mul(decimal.NewFromFloat(taxRatePercent)).Div(hundred)
}
