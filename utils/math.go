// Package utils contains small numeric and concurrency helpers shared across packages.
package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is at most epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	rounded := math.Round(v*scale) / scale
	if rounded == 0 {
		// drop negative zero
		return 0
	}
	return rounded
}

// RoundAll rounds every element of v to the given number of decimals, in place, and returns it.
func RoundAll(v []float64, decimals int) []float64 {
	for i := range v {
		v[i] = RoundTo(v[i], decimals)
	}
	return v
}
