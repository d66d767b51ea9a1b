package assembler

import (
	"time"

	"PriceTracker/internal/calculator"
	"PriceTracker/internal/model"
)

// Assembler turns fetched series into output rows.
type Assembler struct {
	SMAWindow int
}

// New creates an Assembler using the given SMA window; non-positive values fall back
// to calculator.DefaultSMAWindow.
func New(smaWindow int) *Assembler {
	if smaWindow <= 0 {
		smaWindow = calculator.DefaultSMAWindow
	}
	return &Assembler{SMAWindow: smaWindow}
}

// Assemble computes the summary row for one series. Returns false for empty series.
func (a *Assembler) Assemble(series model.SymbolSeries, periodStart time.Time) (model.OutputRow, bool) {
	prices := series.Prices
	if len(prices) == 0 {
		return model.OutputRow{}, false
	}

	periodMin, ok := calculator.MinPrice(prices)
	if !ok {
		return model.OutputRow{}, false
	}
	periodMax, ok := calculator.MaxPrice(prices)
	if !ok {
		return model.OutputRow{}, false
	}
	_, relative, _ := calculator.PriceDifference(prices)

	return model.OutputRow{
		PeriodStart: periodStart,
		Symbol:      series.Symbol,
		LastPrice:   prices[len(prices)-1],
		PctChange:   relative * 100,
		PeriodMin:   periodMin,
		PeriodMax:   periodMax,
		SMA:         calculator.CurrentSMA(prices, a.SMAWindow),
	}, true
}

// AssembleAll builds rows for every non-empty series, keeping input order.
func (a *Assembler) AssembleAll(series []model.SymbolSeries, periodStart time.Time) []model.OutputRow {
	rows := make([]model.OutputRow, 0, len(series))
	for _, s := range series {
		if row, ok := a.Assemble(s, periodStart); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
