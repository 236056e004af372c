package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents).
type Money int64

const minorExponent = -2

// ErrOutOfRange is returned when an amount cannot be represented in minor units.
var ErrOutOfRange = errors.New("amount out of range")

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// FromDecimal converts a major-unit decimal (e.g. 25.99) to Money, rounding half away from zero.
func FromDecimal(d decimal.Decimal) Money {
	return Money(d.Shift(-minorExponent).Round(0).IntPart())
}

// FromFloat converts floating-point dollars received at an API boundary.
func FromFloat(f float64) Money {
	return FromDecimal(decimal.NewFromFloat(f))
}

// ParseFloat is FromFloat for untrusted input. It rejects NaN, infinities and
// amounts whose minor-unit value does not fit in an int64.
func ParseFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrOutOfRange
	}
	minor := decimal.NewFromFloat(f).Shift(-minorExponent).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0, ErrOutOfRange
	}
	return Money(minor.IntPart()), nil
}

func (m Money) Add(o Money) Money { return m + o }

func (m Money) Mul(qty int) Money { return m * Money(qty) }

func (m Money) IsZero() bool { return m == 0 }

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), minorExponent)
}

// Float returns the amount in major units as float64, for JSON responses that expect dollars.
func (m Money) Float() float64 {
	return m.Decimal().InexactFloat64()
}

// String formats the amount with two decimal places.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
