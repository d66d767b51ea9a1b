package calculator

// DefaultSMAWindow is the trailing window used for the "30d avg" column.
const DefaultSMAWindow = 30

// WindowedSMA computes the trailing simple moving averages of prices over the given window.
// One value is produced for every index from window-1 onward, each the mean of the
// window elements ending at that index. Returns false for empty input; a series shorter
// than the window yields an empty, non-nil slice.
func WindowedSMA(prices []float64, window int) ([]float64, bool) {
	if len(prices) == 0 {
		return nil, false
	}
	if window <= 0 || len(prices) < window {
		return []float64{}, true
	}

	out := make([]float64, 0, len(prices)-window+1)
	sum := 0.0
	for i := 0; i < window; i++ {
		sum += prices[i]
	}
	out = append(out, sum/float64(window))
	for i := window; i < len(prices); i++ {
		sum += prices[i] - prices[i-window]
		out = append(out, sum/float64(window))
	}
	return out, true
}

// CurrentSMA returns the most recent trailing average, or 0 when the series is
// shorter than the window.
func CurrentSMA(prices []float64, window int) float64 {
	sma, ok := WindowedSMA(prices, window)
	if !ok || len(sma) == 0 {
		return 0
	}
	return sma[len(sma)-1]
}
