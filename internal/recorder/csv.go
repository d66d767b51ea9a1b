package recorder

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"PriceTracker/internal/model"
)

// CSVRecorder appends one line per row to a CSV stream and flushes after every write.
type CSVRecorder struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
}

// NewCSVRecorder creates (or truncates) the file at path and writes the header.
func NewCSVRecorder(path string) (*CSVRecorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	r, err := NewCSVWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	log.Printf("[INFO] csv recorder opened: %s", path)
	return r, nil
}

// NewCSVWriter writes the header to w and returns a recorder appending to it.
func NewCSVWriter(w io.Writer) (*CSVRecorder, error) {
	r := &CSVRecorder{w: csv.NewWriter(w)}
	if err := r.write(CSVHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return r, nil
}

func (r *CSVRecorder) Record(_ context.Context, row *model.OutputRow) error {
	return r.write(FormatRow(row))
}

func (r *CSVRecorder) write(fields []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.w.Write(fields); err != nil {
		return err
	}
	r.w.Flush()
	return r.w.Error()
}

func (r *CSVRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.w.Flush()
	if r.closer == nil {
		return r.w.Error()
	}
	return r.closer.Close()
}
