package recorder

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"PriceTracker/internal/model"
)

// RedisRecorder keeps the latest summary of every symbol in a Redis hash.
type RedisRecorder struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRecorder connects to addr. A zero ttl keeps keys forever.
func NewRedisRecorder(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisRecorder, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisRecorder{client: client, ttl: ttl}, nil
}

func latestKey(symbol string) string {
	return "latest:" + symbol
}

func summaryFields(row *model.OutputRow) map[string]any {
	return map[string]any{
		"period_start": row.PeriodStart.Format(time.RFC3339),
		"last_price":   strconv.FormatFloat(row.LastPrice, 'f', -1, 64),
		"pct_change":   strconv.FormatFloat(row.PctChange, 'f', -1, 64),
		"period_min":   strconv.FormatFloat(row.PeriodMin, 'f', -1, 64),
		"period_max":   strconv.FormatFloat(row.PeriodMax, 'f', -1, 64),
		"sma":          strconv.FormatFloat(row.SMA, 'f', -1, 64),
	}
}

func (r *RedisRecorder) Record(ctx context.Context, row *model.OutputRow) error {
	key := latestKey(row.Symbol)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, summaryFields(row))
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set latest summary in redis: %w", err)
	}
	return nil
}

func (r *RedisRecorder) Close() error {
	return r.client.Close()
}
