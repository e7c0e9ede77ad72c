package shared

import "github.com/shopspring/decimal"

// hundred is the divisor turning a percentage into a fraction.
var hundred = decimal.NewFromInt(100)

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
// All business-boundary amounts (line totals, commission, VAT, payouts) pass
// through this before aggregation or persistence.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent converts a percentage value to its fractional multiplier,
// e.g. 15 -> 0.15.
func Percent(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}
