package recorder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"PriceTracker/internal/model"
)

type memRecorder struct {
	rows   []model.OutputRow
	err    error
	closed bool
}

func (m *memRecorder) Record(_ context.Context, row *model.OutputRow) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, *row)
	return nil
}

func (m *memRecorder) Close() error {
	m.closed = true
	return nil
}

func TestMulti_StopsAtFirstError(t *testing.T) {
	t.Parallel()

	first := &memRecorder{err: errors.New("write failed")}
	second := &memRecorder{}
	m := Multi{first, second}

	err := m.Record(t.Context(), &sampleRow)
	require.ErrorContains(t, err, "write failed")
	require.Empty(t, second.rows)

	require.NoError(t, m.Close())
	require.True(t, first.closed)
	require.True(t, second.closed)
}

func TestBestEffort_SwallowsErrors(t *testing.T) {
	t.Parallel()

	primary := &memRecorder{}
	m := Multi{BestEffort{Name: "redis", R: &memRecorder{err: errors.New("down")}}, primary}

	require.NoError(t, m.Record(t.Context(), &sampleRow))
	require.Len(t, primary.rows, 1)
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	n := NewNoopRecorder()
	require.NoError(t, n.Record(t.Context(), &sampleRow))
	require.NoError(t, n.Close())
}

func TestSQLiteRecorder_RecordAndLatest(t *testing.T) {
	t.Parallel()

	// Arrange
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	defer r.Close()

	// Act
	require.NoError(t, r.Record(t.Context(), &sampleRow))
	newer := sampleRow
	newer.LastPrice = 110
	require.NoError(t, r.Record(t.Context(), &newer))

	// Assert
	got, err := r.Latest(t.Context(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, 110.0, got.LastPrice)
	require.Equal(t, 100.0, got.PeriodMin)
	require.True(t, got.PeriodStart.Equal(sampleRow.PeriodStart))
}

func TestRedisSummaryFields(t *testing.T) {
	t.Parallel()

	require.Equal(t, "latest:AAPL", latestKey("AAPL"))

	fields := summaryFields(&model.OutputRow{
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Symbol:      "AAPL",
		LastPrice:   105.25,
		PctChange:   -1.5,
	})
	require.Equal(t, "2024-01-01T00:00:00Z", fields["period_start"])
	require.Equal(t, "105.25", fields["last_price"])
	require.Equal(t, "-1.5", fields["pct_change"])
	require.Equal(t, "0", fields["sma"])
}
