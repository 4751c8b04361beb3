package domain

import "math"

// Round3 rounds to 3 decimal places, the precision mandated for all
// position-state and trade prices (spec.md §3).
func Round3(v float64) float64 { return roundTo(v, 3) }

// Round2 rounds to 2 decimal places, the precision mandated for trade and
// candle amounts (spec.md §3).
func Round2(v float64) float64 { return roundTo(v, 2) }

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
