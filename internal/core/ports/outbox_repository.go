package ports

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
)

const (
	// OutboxTopicNotification holds messages the Notification Dispatcher could not send.
	OutboxTopicNotification = "notification"

	// OutboxTopicCartClear holds cart clears that failed after order creation.
	OutboxTopicCartClear = "cart.clear"
)

// OutboxMessage is a side effect recorded for a later retry.
type OutboxMessage struct {
	ID        kernel.UUID
	Topic     string
	Key       string
	Payload   []byte
	Attempts  int
	LastError string
	CreatedAt time.Time
}

// OutboxRepository keeps failed side effects inspectable and retryable.
type OutboxRepository interface {
	Insert(ctx context.Context, msg OutboxMessage) error

	// FetchPending returns unsent messages with attempts < maxAttempts, oldest first.
	FetchPending(ctx context.Context, maxAttempts, limit int) ([]OutboxMessage, error)

	MarkSent(ctx context.Context, id kernel.UUID, at time.Time) error

	MarkFailed(ctx context.Context, id kernel.UUID, cause error) error
}
