package collector

import (
	"context"
	"errors"
	"time"

	"PriceTracker/internal/model"
)

// ErrNoData is returned by fetchers when the provider has no bars for the window.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching historical closing prices.
//
//go:generate mockgen -package=collector_test -destination=mock_fetcher_test.go -source=fetcher.go Fetcher
type Fetcher interface {
	// FetchHistory returns the closing prices of symbol within [begin, end].
	FetchHistory(ctx context.Context, symbol string, begin, end time.Time) ([]model.PricePoint, error)
	Name() string
}
