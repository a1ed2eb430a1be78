package usecase

import (
	"github.com/shopspring/decimal"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
)

// round2 rounds half-up to two decimal places. Prices are non-negative
// here, so decimal's half-away-from-zero is half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Price computes the tax-inclusive triple for one group of lines.
// Each of subtotal, tax and total is rounded exactly once; total is
// derived from the already-rounded subtotal and tax, so every order
// built from this triple is internally consistent. Pure: malformed
// lines are rejected upstream, never here.
func Price(items []domain.LineItem, taxRate decimal.Decimal) domain.Totals {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}

	subtotal := round2(sum)
	tax := round2(subtotal.Mul(taxRate))
	total := round2(subtotal.Add(tax))

	return domain.Totals{Subtotal: subtotal, Tax: tax, Total: total}
}
