package calculator

import "math"

// MinPrice returns the smallest price in the series. NaN values are ignored.
func MinPrice(prices []float64) (float64, bool) {
	return fold(prices, func(cur, v float64) bool { return v < cur })
}

// MaxPrice returns the largest price in the series. NaN values are ignored.
func MaxPrice(prices []float64) (float64, bool) {
	return fold(prices, func(cur, v float64) bool { return v > cur })
}

func fold(prices []float64, better func(cur, v float64) bool) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for _, p := range prices {
		if math.IsNaN(p) {
			continue
		}
		if !found || better(best, p) {
			best = p
			found = true
		}
	}
	return best, found
}
