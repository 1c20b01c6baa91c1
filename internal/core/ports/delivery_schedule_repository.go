package ports

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
)

// ScheduledDelivery is one persisted auto-delivery check.
type ScheduledDelivery struct {
	OrderID  kernel.UUID
	DueAt    time.Time
	Attempts int
}

// DeliveryScheduleRepository stores the durable auto-delivery timers.
// A row survives process restarts until it is marked processed or runs out of attempts.
type DeliveryScheduleRepository interface {
	// Schedule registers the check for an order. Scheduling an order twice keeps the first row.
	Schedule(ctx context.Context, orderID kernel.UUID, dueAt time.Time) error

	// Due returns unprocessed rows with dueAt <= now and attempts < maxAttempts, oldest first.
	Due(ctx context.Context, now time.Time, maxAttempts, limit int) ([]ScheduledDelivery, error)

	MarkProcessed(ctx context.Context, orderID kernel.UUID, at time.Time) error

	// MarkFailed increments attempts and records the error for the next tick.
	MarkFailed(ctx context.Context, orderID kernel.UUID, cause error) error
}
