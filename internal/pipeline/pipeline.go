package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"PriceTracker/internal/assembler"
	"PriceTracker/internal/collector"
	"PriceTracker/internal/model"
	"PriceTracker/internal/recorder"
)

var (
	// ErrClosed is returned by Submit after Stop.
	ErrClosed = errors.New("pipeline closed")
	// ErrQueueFull is returned by Submit when the request queue has no room.
	ErrQueueFull = errors.New("pipeline request queue full")
)

// DefaultQueueSize is the capacity of each inter-stage channel.
const DefaultQueueSize = 16

// Pipeline wires the fetch, assemble and sink stages together with bounded channels.
// Each request is fetched in its own goroutine so runs may overlap; the sink stage is
// the only goroutine touching the recorder.
type Pipeline struct {
	collector *collector.Collector
	assembler *assembler.Assembler
	recorder  recorder.Recorder

	requests chan model.FetchRequest
	batches  chan model.SeriesBatch
	rows     chan model.RowBatch
	errs     chan error

	mu      sync.RWMutex
	closed  bool
	started bool
	fetches sync.WaitGroup
	stages  sync.WaitGroup
}

// New creates a Pipeline. queueSize <= 0 uses DefaultQueueSize.
func New(col *collector.Collector, asm *assembler.Assembler, rec recorder.Recorder, queueSize int) *Pipeline {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Pipeline{
		collector: col,
		assembler: asm,
		recorder:  rec,
		requests:  make(chan model.FetchRequest, queueSize),
		batches:   make(chan model.SeriesBatch, queueSize),
		rows:      make(chan model.RowBatch, queueSize),
		errs:      make(chan error, 1),
	}
}

// Start launches the stage goroutines. They run until Stop is called.
func (p *Pipeline) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	p.stages.Add(3)
	go p.fetchStage(ctx)
	go p.assembleStage(ctx)
	go p.sinkStage(ctx)
	log.Println("[INFO] pipeline started")
}

// Submit queues a run without waiting for it.
func (p *Pipeline) Submit(req model.FetchRequest) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.requests <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// Errors reports fatal sink failures.
func (p *Pipeline) Errors() <-chan error {
	return p.errs
}

// Stop refuses new requests, waits for queued runs to drain and closes the recorder.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.requests)
	started := p.started
	p.mu.Unlock()

	if started {
		p.stages.Wait()
	}
	log.Println("[INFO] pipeline stopped")
	return p.recorder.Close()
}

func (p *Pipeline) fetchStage(ctx context.Context) {
	defer p.stages.Done()
	defer close(p.batches)

	for req := range p.requests {
		p.fetches.Add(1)
		go func(req model.FetchRequest) {
			defer p.fetches.Done()
			log.Printf("[INFO] run %d: fetching %d symbols [%s, %s]", req.ID, len(req.Symbols),
				req.Window.Begin.Format("2006-01-02"), req.Window.End.Format("2006-01-02 15:04:05"))
			series := p.collector.FetchAll(ctx, req.Symbols, req.Window)
			select {
			case p.batches <- model.SeriesBatch{RunID: req.ID, Window: req.Window, Series: series}:
			case <-ctx.Done():
				log.Printf("[WARN] run %d: dropped, %v", req.ID, ctx.Err())
			}
		}(req)
	}
	p.fetches.Wait()
}

func (p *Pipeline) assembleStage(ctx context.Context) {
	defer p.stages.Done()
	defer close(p.rows)

	for b := range p.batches {
		rows := p.assembler.AssembleAll(b.Series, b.Window.Begin)
		select {
		case p.rows <- model.RowBatch{RunID: b.RunID, Rows: rows}:
		case <-ctx.Done():
			log.Printf("[WARN] run %d: dropped %d rows, %v", b.RunID, len(rows), ctx.Err())
		}
	}
}

func (p *Pipeline) sinkStage(ctx context.Context) {
	defer p.stages.Done()

	for b := range p.rows {
		written := 0
		for i := range b.Rows {
			if err := p.recorder.Record(ctx, &b.Rows[i]); err != nil {
				p.fail(fmt.Errorf("run %d: record %s: %w", b.RunID, b.Rows[i].Symbol, err))
				continue
			}
			written++
		}
		log.Printf("[INFO] run %d: wrote %d rows", b.RunID, written)
	}
}

func (p *Pipeline) fail(err error) {
	log.Printf("[ERROR] %v", err)
	select {
	case p.errs <- err:
	default:
	}
}
