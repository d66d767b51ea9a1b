package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"PriceTracker/internal/model"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	reqs []model.FetchRequest
	err  error
}

func (d *recordingDispatcher) Submit(req model.FetchRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.reqs = append(d.reqs, req)
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.reqs)
}

var begin = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRunNow_AdvancesEndAndKeepsBegin(t *testing.T) {
	t.Parallel()

	// Arrange: a clock that moves forward 30s per call.
	d := &recordingDispatcher{}
	s := NewScheduler(d, []string{"AAPL", "MSFT"}, begin, 0)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.Now = func() time.Time {
		now = now.Add(30 * time.Second)
		return now
	}

	// Act
	s.RunNow()
	s.RunNow()

	// Assert
	require.Equal(t, DefaultInterval, s.Interval)
	require.Len(t, d.reqs, 2)
	require.Equal(t, uint64(1), d.reqs[0].ID)
	require.Equal(t, uint64(2), d.reqs[1].ID)
	for _, r := range d.reqs {
		require.Equal(t, []string{"AAPL", "MSFT"}, r.Symbols)
		require.True(t, r.Window.Begin.Equal(begin))
	}
	require.Equal(t, 30*time.Second, d.reqs[1].Window.End.Sub(d.reqs[0].Window.End))
}

func TestTick_DispatchFailureIsSkipped(t *testing.T) {
	t.Parallel()

	d := &recordingDispatcher{err: errors.New("queue full")}
	s := NewScheduler(d, []string{"AAPL"}, begin, time.Second)

	require.NotPanics(t, s.RunNow)
	require.Zero(t, d.count())

	// The next tick still gets a fresh ID.
	d.err = nil
	s.RunNow()
	require.Equal(t, uint64(2), d.reqs[0].ID)
}

func TestRegister_RejectsSubSecondInterval(t *testing.T) {
	t.Parallel()

	s := NewScheduler(&recordingDispatcher{}, []string{"AAPL"}, begin, 500*time.Millisecond)
	require.Error(t, s.Register())
}

func TestStart_DispatchesImmediatelyThenPeriodically(t *testing.T) {
	t.Parallel()

	d := &recordingDispatcher{}
	s := NewScheduler(d, []string{"AAPL"}, begin, time.Second)
	require.NoError(t, s.Register())

	s.Start()
	defer s.Stop()

	require.Equal(t, 1, d.count(), "first run should be dispatched synchronously")
	require.False(t, s.Next().IsZero())
	require.Eventually(t, func() bool { return d.count() >= 2 }, 5*time.Second, 50*time.Millisecond)
}
