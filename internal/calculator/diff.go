package calculator

// PriceDifference returns the absolute change between the first and last price and
// the change relative to the first price. A zero first price yields a relative
// change of 0.
func PriceDifference(prices []float64) (diff, relative float64, ok bool) {
	if len(prices) == 0 {
		return 0, 0, false
	}
	first := prices[0]
	last := prices[len(prices)-1]
	diff = last - first
	if first != 0 {
		relative = diff / first
	}
	return diff, relative, true
}
