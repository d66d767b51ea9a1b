package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"PriceTracker/internal/model"
)

// PostgresRecorder stores summarized rows in PostgreSQL.
type PostgresRecorder struct {
	db *sql.DB
}

// NewPostgresRecorder connects to dsn and creates the summaries table if needed.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &PostgresRecorder{db: db}
	if err := r.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	log.Println("[INFO] postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS symbol_summaries (
		id SERIAL PRIMARY KEY,
		symbol VARCHAR(32) NOT NULL,
		period_start TIMESTAMPTZ NOT NULL,
		last_price DOUBLE PRECISION NOT NULL,
		pct_change DOUBLE PRECISION NOT NULL,
		period_min DOUBLE PRECISION NOT NULL,
		period_max DOUBLE PRECISION NOT NULL,
		sma DOUBLE PRECISION NOT NULL,
		recorded_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_summaries_symbol_recorded ON symbol_summaries(symbol, recorded_at);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *PostgresRecorder) Record(ctx context.Context, row *model.OutputRow) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO symbol_summaries
		(symbol, period_start, last_price, pct_change, period_min, period_max, sma)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		row.Symbol, row.PeriodStart, row.LastPrice, row.PctChange, row.PeriodMin, row.PeriodMax, row.SMA,
	)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
