package collector

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"PriceTracker/internal/model"
)

// Collector is the fetch stage: it fans out one Fetcher call per symbol and joins
// the results into a single batch.
type Collector struct {
	Fetcher Fetcher
	// MaxConcurrency caps in-flight fetches per run. Zero or less means one goroutine per symbol.
	MaxConcurrency int
	// Retries is the number of extra attempts after a failed fetch.
	Retries      int
	RetryBackoff time.Duration
}

// Option configures a Collector.
type Option func(*Collector)

// WithMaxConcurrency bounds the number of concurrent fetches per run.
func WithMaxConcurrency(n int) Option {
	return func(c *Collector) { c.MaxConcurrency = n }
}

// WithRetry enables retries with exponential backoff starting at backoff.
func WithRetry(retries int, backoff time.Duration) Option {
	return func(c *Collector) {
		c.Retries = retries
		c.RetryBackoff = backoff
	}
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, opts ...Option) *Collector {
	c := &Collector{Fetcher: fetcher, RetryBackoff: time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll fetches every symbol concurrently and waits for all of them before
// returning. Symbols whose fetch fails are dropped. The result is in completion
// order, not request order.
func (c *Collector) FetchAll(ctx context.Context, symbols []string, window model.RunWindow) []model.SymbolSeries {
	var (
		mu  sync.Mutex
		out = make([]model.SymbolSeries, 0, len(symbols))
		sem *semaphore.Weighted
	)
	if c.MaxConcurrency > 0 {
		sem = semaphore.NewWeighted(int64(c.MaxConcurrency))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, symbol := range symbols {
		g.Go(func() error {
			if sem != nil {
				if err := sem.Acquire(gctx, 1); err != nil {
					return nil
				}
				defer sem.Release(1)
			}
			series, err := c.FetchSymbol(gctx, symbol, window)
			if err != nil {
				log.Printf("[WARN] fetch %s via %s: %v, dropping symbol", symbol, c.Fetcher.Name(), err)
				return nil
			}
			mu.Lock()
			out = append(out, series)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; failures are dropped above
	return out
}

// FetchSymbol fetches one symbol, retrying as configured, and reduces the points to
// a chronologically ordered price series.
func (c *Collector) FetchSymbol(ctx context.Context, symbol string, window model.RunWindow) (model.SymbolSeries, error) {
	var lastErr error
	for i := 0; i <= c.Retries; i++ {
		if i > 0 {
			backoff := c.RetryBackoff * time.Duration(1<<uint(i-1))
			log.Printf("[WARN] fetch %s failed (attempt %d/%d): %v, retrying in %v", symbol, i, c.Retries+1, lastErr, backoff)
			t := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				t.Stop()
				return model.SymbolSeries{}, ctx.Err()
			case <-t.C:
			}
		}
		points, err := c.Fetcher.FetchHistory(ctx, symbol, window.Begin, window.End)
		if err != nil {
			lastErr = err
			continue
		}
		return model.SymbolSeries{Symbol: symbol, Prices: closingPrices(points)}, nil
	}
	if c.Retries > 0 {
		return model.SymbolSeries{}, fmt.Errorf("all %d attempts failed: %w", c.Retries+1, lastErr)
	}
	return model.SymbolSeries{}, lastErr
}

func closingPrices(points []model.PricePoint) []float64 {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Close
	}
	return prices
}
