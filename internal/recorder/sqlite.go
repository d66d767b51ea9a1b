package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"PriceTracker/internal/model"
)

// SQLiteRecorder keeps a history of every summarized row in a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers don't block the pipeline.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS symbol_summaries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at  INTEGER NOT NULL,
			period_start INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			last_price   REAL,
			pct_change   REAL,
			period_min   REAL,
			period_max   REAL,
			sma          REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_symbol_ts ON symbol_summaries(symbol, recorded_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Record(ctx context.Context, row *model.OutputRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO symbol_summaries
		(recorded_at, period_start, symbol, last_price, pct_change, period_min, period_max, sma)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), row.PeriodStart.Unix(), row.Symbol,
		row.LastPrice, row.PctChange, row.PeriodMin, row.PeriodMax, row.SMA,
	)
	return err
}

// Latest returns the most recently recorded row for symbol.
func (r *SQLiteRecorder) Latest(ctx context.Context, symbol string) (*model.OutputRow, error) {
	var (
		periodStart int64
		row         = model.OutputRow{Symbol: symbol}
	)
	err := r.db.QueryRowContext(ctx, `SELECT period_start, last_price, pct_change, period_min, period_max, sma
		FROM symbol_summaries WHERE symbol = ? ORDER BY id DESC LIMIT 1`, symbol).
		Scan(&periodStart, &row.LastPrice, &row.PctChange, &row.PeriodMin, &row.PeriodMax, &row.SMA)
	if err != nil {
		return nil, err
	}
	row.PeriodStart = time.Unix(periodStart, 0).UTC()
	return &row, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
