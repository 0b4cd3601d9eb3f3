package accounting

import (
	"github.com/SscSPs/oneflow/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of fraction digits kept for money amounts.
const CurrencyPlaces = 2

// DefaultTaxRate is the document-level rate (percent) applied when none is given.
var DefaultTaxRate = decimal.NewFromInt(18)

var hundred = decimal.NewFromInt(100)

// TaxPolicy selects how CalculateTotals derives tax.
// Rate is only read in DOCUMENT_RATE mode; nil means DefaultTaxRate.
type TaxPolicy struct {
	Mode domain.TaxMode
	Rate *decimal.Decimal
}

// EffectiveRate returns the document-level rate the policy resolves to.
func (p TaxPolicy) EffectiveRate() decimal.Decimal {
	if p.Rate == nil {
		return DefaultTaxRate
	}
	return *p.Rate
}

// Totals is the derived money summary of a document.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// LineNet returns quantity * unitPrice without rounding.
func LineNet(item domain.LineItem) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
}

// LineAmount returns the line's gross amount at its own tax rate,
// rounded to currency precision.
func LineAmount(item domain.LineItem) decimal.Decimal {
	net := LineNet(item)
	return net.Add(net.Mul(item.TaxRate).Div(hundred)).Round(CurrencyPlaces)
}

// CalculateTotals derives subtotal, tax and total for items.
// Subtotal is exact, tax is rounded half away from zero to currency precision
// and total is subtotal + tax. An empty list yields all zeros.
func CalculateTotals(items []domain.LineItem, policy TaxPolicy) Totals {
	subtotal := decimal.Zero
	lineTax := decimal.Zero
	for _, item := range items {
		net := LineNet(item)
		subtotal = subtotal.Add(net)
		lineTax = lineTax.Add(net.Mul(item.TaxRate))
	}

	var tax decimal.Decimal
	switch policy.Mode {
	case domain.TaxModePerLine:
		tax = lineTax.Div(hundred)
	default:
		tax = subtotal.Mul(policy.EffectiveRate()).Div(hundred)
	}
	tax = tax.Round(CurrencyPlaces)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// ApplyLineAmounts returns a copy of items with Amount populated.
func ApplyLineAmounts(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		item.Amount = LineAmount(item)
		out[i] = item
	}
	return out
}
