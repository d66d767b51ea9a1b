package recorder

import (
	"fmt"
	"time"

	"PriceTracker/internal/model"
)

// CSVHeader is the fixed header line of the output file.
var CSVHeader = []string{"period start", "symbol", "price", "change %", "min", "max", "30d avg"}

// FormatRow renders a row into the CSV fields written by CSVRecorder.
func FormatRow(row *model.OutputRow) []string {
	return []string{
		row.PeriodStart.Format(time.RFC3339),
		row.Symbol,
		money(row.LastPrice),
		fmt.Sprintf("%.2f%%", row.PctChange),
		money(row.PeriodMin),
		money(row.PeriodMax),
		money(row.SMA),
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
