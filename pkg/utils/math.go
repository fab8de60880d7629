package utils

import "math"

// Round rounds x half away from zero to the given number of decimals.
func Round(x float64, decimals int) float64 {
	if decimals < 0 {
		return x
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
