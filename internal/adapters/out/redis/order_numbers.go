// Package redis keeps the short-lived shared state of the ordering service:
// the daily order-number sequence and the customers' shopping carts.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	orderNumberPrefix = "ORD"
	sequenceKeyPrefix = "ordering:order-seq:"

	// sequenceTTL keeps yesterday's counter around across the UTC day boundary.
	sequenceTTL = 48 * time.Hour
)

// OrderNumberGenerator issues ORD-YYYYMMDD-NNNNN numbers from a per-day Redis counter.
//
// Without a client, or when Redis fails, it falls back to ORD-YYYYMMDD-xxxxxxxx
// with eight random hex characters; the unique index on orders.order_number
// catches the rare collision.
type OrderNumberGenerator struct {
	client *goredis.Client
	logger *slog.Logger
}

// NewOrderNumberGenerator accepts a nil client.
func NewOrderNumberGenerator(client *goredis.Client, logger *slog.Logger) *OrderNumberGenerator {
	return &OrderNumberGenerator{
		client: client,
		logger: logger.With("component", "order-numbers"),
	}
}

func (g *OrderNumberGenerator) Next(ctx context.Context, now time.Time) (string, error) {
	day := now.UTC().Format("20060102")
	if g.client == nil {
		return randomNumber(day), nil
	}

	seq, err := g.increment(ctx, sequenceKeyPrefix+day)
	if err != nil {
		g.logger.Warn("order sequence unavailable, using random suffix", "day", day, "error", err)
		return randomNumber(day), nil
	}

	return fmt.Sprintf("%s-%s-%05d", orderNumberPrefix, day, seq), nil
}

func (g *OrderNumberGenerator) increment(ctx context.Context, key string) (int64, error) {
	pipe := g.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, sequenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func randomNumber(day string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, day, suffix)
}
