// Package utils contains small math helpers shared across the module.
package utils

import (
	"math"
	"sort"
)

func AbsInt(n int) int {
	if n < 0 {
		return -1 * n
	}
	return n
}

func MaxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ClampInt forces n into the range [min, max].
func ClampInt(n, min, max int) int {
	return MaxInt(min, MinInt(max, n))
}

func Median(values ...float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sort.Float64s(values)

	return values[int(math.Floor(float64(len(values))/2))]
}
