package recorder

import (
	"context"

	"PriceTracker/internal/model"
)

// NoopRecorder is a no-op implementation used when no secondary store is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(_ context.Context, _ *model.OutputRow) error { return nil }
func (n *NoopRecorder) Close() error                                       { return nil }
