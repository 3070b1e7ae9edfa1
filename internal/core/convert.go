package core

import (
	"fmt"
	"math"
)

// DefaultRates is the built-in rate table used until overwritten by the
// user or the rate oracle. Values are pula per one foreign unit.
func DefaultRates() Rates {
	return Rates{
		LocalCurrency: 1,
		"ZAR":         0.72,
		"USD":         13.55,
	}
}

// Normalize repairs a rate table loaded from an older blob: a nil map
// becomes the default table and the local currency is pinned at 1.
func (r Rates) Normalize() Rates {
	if len(r) == 0 {
		return DefaultRates()
	}
	r[LocalCurrency] = 1
	return r
}

// Convert maps a foreign-currency amount to local cents using the given
// rate table, rounding half-up to two decimal places. Conversion is
// pure: it never touches the rate table it reads.
func Convert(foreign Money, code string, rates Rates) (Money, error) {
	if foreign.Cents < 0 {
		return Money{}, fmt.Errorf("%w: foreign amount must not be negative", ErrInvalidAmount)
	}
	rate, ok := rates[code]
	if !ok {
		return Money{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	cents := int64(math.Floor(float64(foreign.Cents)*rate + 0.5))
	return Money{Cents: cents}, nil
}
