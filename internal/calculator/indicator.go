package calculator

import "fmt"

// Kind enumerates the supported indicators.
type Kind int

const (
	KindMin Kind = iota
	KindMax
	KindDiff
	KindSMA
)

func (k Kind) String() string {
	switch k {
	case KindMin:
		return "min"
	case KindMax:
		return "max"
	case KindDiff:
		return "diff"
	case KindSMA:
		return "sma"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Indicator is one member of the closed indicator set. Window is only used by KindSMA.
type Indicator struct {
	Kind   Kind
	Window int
}

// Min, Max, Diff and SMA build the corresponding indicators.
func Min() Indicator           { return Indicator{Kind: KindMin} }
func Max() Indicator           { return Indicator{Kind: KindMax} }
func Diff() Indicator          { return Indicator{Kind: KindDiff} }
func SMA(window int) Indicator { return Indicator{Kind: KindSMA, Window: window} }

// Result holds the output of an Indicator. Only the fields for its Kind are set:
// Value for min/max, Diff and Relative for diff, Series for sma.
type Result struct {
	Kind     Kind
	Value    float64
	Diff     float64
	Relative float64
	Series   []float64
}

// Calculate applies the indicator to prices. Returns false for empty input.
func (ind Indicator) Calculate(prices []float64) (Result, bool) {
	res := Result{Kind: ind.Kind}
	var ok bool
	switch ind.Kind {
	case KindMin:
		res.Value, ok = MinPrice(prices)
	case KindMax:
		res.Value, ok = MaxPrice(prices)
	case KindDiff:
		res.Diff, res.Relative, ok = PriceDifference(prices)
	case KindSMA:
		res.Series, ok = WindowedSMA(prices, ind.Window)
	}
	return res, ok
}
