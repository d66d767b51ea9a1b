package recorder

import (
	"context"
	"errors"
	"log"

	"PriceTracker/internal/model"
)

// Recorder persists summarized rows.
type Recorder interface {
	Record(ctx context.Context, row *model.OutputRow) error
	Close() error
}

// Multi writes each row to every recorder in order. The first error stops the
// chain and is returned.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, row *model.OutputRow) error {
	for _, r := range m {
		if err := r.Record(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BestEffort wraps a secondary recorder whose failures are logged but never
// propagated.
type BestEffort struct {
	Name string
	R    Recorder
}

func (b BestEffort) Record(ctx context.Context, row *model.OutputRow) error {
	if err := b.R.Record(ctx, row); err != nil {
		log.Printf("[ERROR] %s record %s: %v", b.Name, row.Symbol, err)
	}
	return nil
}

func (b BestEffort) Close() error {
	return b.R.Close()
}
