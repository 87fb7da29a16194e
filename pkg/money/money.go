// Package money provides a fixed-point monetary amount expressed in minor
// currency units. All arithmetic happens on int64 cents so totals never
// accumulate floating-point error.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of decimal places held by a Money value.
const MinorUnitExponent = 2

// ErrInvalidAmount is returned when a textual amount cannot be represented exactly.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// Money is an amount in minor units (cents).
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// FromMinor builds a Money value from a count of minor units.
func FromMinor(cents int64) Money {
	return Money(cents)
}

// Parse converts a decimal string such as "10.50" into Money. Amounts with
// more precision than MinorUnitExponent are rejected rather than rounded.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal amount in major units into Money.
func FromDecimal(d decimal.Decimal) (Money, error) {
	scaled := d.Shift(MinorUnitExponent)
	if !scaled.IsInteger() {
		return Zero, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d.String(), MinorUnitExponent)
	}
	if scaled.BigInt().BitLen() > 63 {
		return Zero, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, d.String())
	}
	return Money(scaled.IntPart()), nil
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 {
	return int64(m)
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -MinorUnitExponent)
}

// String renders the amount with exactly two decimal places.
func (m Money) String() string {
	return m.Decimal().StringFixed(MinorUnitExponent)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return m + o
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return m - o
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

// PercentOf returns m as a percentage of goal, rounded to two decimal places.
// A non-positive goal yields zero.
func (m Money) PercentOf(goal Money) decimal.Decimal {
	if goal <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(m)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(goal)), 2)
}

// MarshalJSON encodes the amount as a decimal string, e.g. "10.50".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
// Bare numbers are read from their literal text, never through float64.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
