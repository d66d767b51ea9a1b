package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PriceTracker/internal/model"
)

// StaticFetcher serves fixed data for development, dry runs and testing.
// Symbols without an entry in Points fail with ErrNoData.
type StaticFetcher struct {
	Points map[string][]model.PricePoint
	Errs   map[string]error
	Delay  time.Duration

	mu    sync.Mutex
	calls map[string]int
}

func (f *StaticFetcher) Name() string { return "static" }

func (f *StaticFetcher) FetchHistory(ctx context.Context, symbol string, _, _ time.Time) ([]model.PricePoint, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[symbol]++
	f.mu.Unlock()

	if f.Delay > 0 {
		t := time.NewTimer(f.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if err, ok := f.Errs[symbol]; ok {
		return nil, err
	}
	points, ok := f.Points[symbol]
	if !ok {
		return nil, fmt.Errorf("static %s: %w", symbol, ErrNoData)
	}
	return append([]model.PricePoint(nil), points...), nil
}

// Calls returns how many times symbol has been fetched.
func (f *StaticFetcher) Calls(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

// GeneratePoints builds count daily closes drifting around basePrice, ending yesterday.
func GeneratePoints(basePrice float64, count int) []model.PricePoint {
	points := make([]model.PricePoint, count)
	now := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		points[i] = model.PricePoint{
			Time:  now.AddDate(0, 0, -(count - i)),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return points
}
