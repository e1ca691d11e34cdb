// Package money converts between user-facing decimal currency amounts and
// the integer minor-unit representation used for storage. All stored
// arithmetic is integer; floats never touch an amount.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToMinorUnits converts a decimal amount to integer minor units, rounding
// half away from zero at the second decimal digit.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// ToDecimal converts minor units back to an exact two-decimal amount.
func ToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// Parse converts a decimal string (as received from the API) to minor units.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return ToMinorUnits(d), nil
}

// Format renders minor units as a fixed two-decimal string for display.
func Format(minor int64) string {
	return ToDecimal(minor).StringFixed(2)
}
