package scheduler

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"PriceTracker/internal/model"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = 30 * time.Second

// Dispatcher accepts runs without waiting for them to complete.
type Dispatcher interface {
	Submit(req model.FetchRequest) error
}

// Scheduler triggers one run at start and then one per interval.
type Scheduler struct {
	Cron       *cron.Cron
	Dispatcher Dispatcher
	Symbols    []string
	Begin      time.Time
	Interval   time.Duration
	// Now supplies the end of each run window.
	Now func() time.Time

	nextID  atomic.Uint64
	entryID cron.EntryID
}

// NewScheduler creates a new Scheduler.
func NewScheduler(d Dispatcher, symbols []string, begin time.Time, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Dispatcher: d,
		Symbols:    symbols,
		Begin:      begin,
		Interval:   interval,
		Now:        time.Now,
	}
}

// Register adds the periodic trigger to the cron scheduler.
func (s *Scheduler) Register() error {
	if s.Interval < time.Second {
		return fmt.Errorf("poll interval %v: must be at least 1s", s.Interval)
	}
	id, err := s.Cron.AddFunc("@every "+s.Interval.String(), s.tick)
	if err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	s.entryID = id
	return nil
}

// Start dispatches the first run immediately and starts the cron scheduler.
func (s *Scheduler) Start() {
	s.RunNow()
	s.Cron.Start()
	log.Printf("[INFO] scheduler started, polling every %v", s.Interval)
}

// Stop stops the cron scheduler and waits for a running tick to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow dispatches one run with the window ending now.
func (s *Scheduler) RunNow() {
	s.tick()
}

// Next reports when the next periodic run is due. Zero before Start.
func (s *Scheduler) Next() time.Time {
	return s.Cron.Entry(s.entryID).Next
}

func (s *Scheduler) tick() {
	req := model.FetchRequest{
		ID:      s.nextID.Add(1),
		Symbols: s.Symbols,
		Window:  model.RunWindow{Begin: s.Begin, End: s.Now().UTC()},
	}
	if err := s.Dispatcher.Submit(req); err != nil {
		log.Printf("[ERROR] dispatch run %d: %v, skipping", req.ID, err)
		return
	}
	log.Printf("[INFO] run %d dispatched", req.ID)
}
