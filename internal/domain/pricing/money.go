package pricing

import "github.com/shopspring/decimal"

// Money is an amount in minor currency units (cents).
type Money int64

var hundred = decimal.NewFromInt(100)

// FromMajor converts a major-unit amount (e.g. 47.30 dollars) to cents, rounding half-up.
func FromMajor(amount float64) Money {
	return Money(decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart())
}

// Major returns the amount in major units.
func (m Money) Major() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// Decimal returns the amount in major units as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// applyPercent returns pct percent of m rounded half-up to the cent.
func applyPercent(m Money, pct float64) Money {
	return fromCentsDecimal(decimal.NewFromInt(int64(m)).Mul(decimal.NewFromFloat(pct)).Div(hundred))
}

// fromCentsDecimal rounds a fractional cent amount half-up (away from zero).
func fromCentsDecimal(cents decimal.Decimal) Money {
	return Money(cents.Round(0).IntPart())
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b Money) Money {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
