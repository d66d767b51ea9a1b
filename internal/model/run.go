package model

import "time"

// FetchRequest asks the pipeline to run once for the given symbols and window.
type FetchRequest struct {
	ID      uint64
	Symbols []string
	Window  RunWindow
}

// SeriesBatch is the aggregated output of the fetch stage for one run.
type SeriesBatch struct {
	RunID  uint64
	Window RunWindow
	Series []SymbolSeries
}

// OutputRow is one summarized symbol, ready to be recorded.
type OutputRow struct {
	PeriodStart time.Time
	Symbol      string
	LastPrice   float64
	PctChange   float64 // percent units, not a ratio
	PeriodMin   float64
	PeriodMax   float64
	SMA         float64
}

// RowBatch carries the rows assembled for one run.
type RowBatch struct {
	RunID uint64
	Rows  []OutputRow
}
