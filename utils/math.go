package utils

import "math"

// Round2 rounds to the currency's minor unit (2 decimal places).
func Round2(val float64) float64 {
	return math.Round(val*100) / 100
}

// RoundFloat rounds a float64 to the specified number of decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
