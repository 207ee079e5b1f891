package units

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Factor is an exact scale factor stored as a ratio of two decimals, so
// that values such as 1/60 (per-minute rates) or 1/3600 (arc seconds) are
// not rounded at declaration time.
//
// The zero Factor means "no factor".
type Factor struct {
	num decimal.Decimal
	den decimal.Decimal
}

var one = decimal.NewFromInt(1)

// exact declares a terminating decimal factor, e.g. exact("0.3048").
func exact(s string) Factor {
	return Factor{num: decimal.RequireFromString(s), den: one}
}

// ratio declares num/den, e.g. ratio("1", "60").
func ratio(num, den string) Factor {
	return Factor{num: decimal.RequireFromString(num), den: decimal.RequireFromString(den)}
}

// IsZero reports whether f is the zero Factor.
func (f Factor) IsZero() bool {
	return f.num.IsZero() || f.den.IsZero()
}

// Rat returns the exact value of the factor.
func (f Factor) Rat() *big.Rat {
	if f.IsZero() {
		return new(big.Rat)
	}
	return new(big.Rat).Quo(f.num.Rat(), f.den.Rat())
}

// Decimal returns the factor rounded to the given number of decimal places.
func (f Factor) Decimal(places int32) decimal.Decimal {
	if f.IsZero() {
		return decimal.Zero
	}
	return f.num.DivRound(f.den, places)
}

// String renders the factor as "n" or "n/d".
func (f Factor) String() string {
	if f.IsZero() {
		return "0"
	}
	if f.den.Equal(one) {
		return f.num.String()
	}
	return f.num.String() + "/" + f.den.String()
}
