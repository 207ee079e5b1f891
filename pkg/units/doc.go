// Package units provides the unit registry and conversion engine.
//
// The registry is a compiled-in, ordered table of categories (Time, Data,
// DataRate, Energy, ...). Each category owns an ordered list of units and
// each unit carries a scale factor expressing how many base units one of
// it is worth. The registry is built once at package initialisation and is
// never mutated, so it is safe to share between goroutines without locking.
//
// Conversion is fail-soft: Convert never returns an error and never panics.
// Unknown units resolve to a zero factor and a zero divisor yields 0, so a
// caller rendering a chart always gets a number. ConvertStrict is the
// validating variant for callers that need to tell a real zero from a
// failed conversion.
//
// Arithmetic is exact until the very end: factors are decimal ratios, the
// product is formed with arbitrary-precision decimals and the quotient is
// taken as a rational before a single coercion to float64.
package units
