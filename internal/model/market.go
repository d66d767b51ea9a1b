package model

import "time"

// PricePoint is a single timestamped closing price returned by a quote provider.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// SymbolSeries holds the chronological closing prices fetched for one symbol.
// An empty Prices slice means the provider returned no data for this run.
type SymbolSeries struct {
	Symbol string
	Prices []float64
}

// RunWindow is the [Begin, End) period of a single pipeline run.
type RunWindow struct {
	Begin time.Time
	End   time.Time
}
