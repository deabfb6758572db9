package shared

import "github.com/shopspring/decimal"

// BalanceTolerance is the maximum accepted drift between total debit and
// total credit on a journal entry. Amounts are fixed-point, so the tolerance
// only ever absorbs rounding of derived lines (VAT, discount splits).
var BalanceTolerance = decimal.New(1, -2) // 0.01

// Round2 rounds a monetary amount to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// QtyDec converts a quantity to decimal for cost arithmetic.
func QtyDec(qty float64) decimal.Decimal {
	return decimal.NewFromFloat(qty)
}
