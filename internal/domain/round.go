package domain

import "math"

// Round2 rounds to two decimal places, half away from zero.
// All stored and reported distances use this precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place, half away from zero.
// Used only by the estimated-flight-hours statistic.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
