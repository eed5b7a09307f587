// Package core holds the forecast domain types shared by the generation
// pipeline and the read API.
package core

import "github.com/shopspring/decimal"

// RoundQuantity converts a raw average into a whole predicted quantity.
//
// Rounding is half away from zero (decimal's Round), so an average of 2.5
// becomes 3. Averages are non-negative, which makes this plain half-up —
// the usual reading of "expected demand". Anything that still comes out
// negative is clamped to zero.
func RoundQuantity(avg float64) int {
	q := decimal.NewFromFloat(avg).Round(0).IntPart()
	if q < 0 {
		return 0
	}
	return int(q)
}
