package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ordering/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const (
	MaxOutboxAttempts = 5

	outboxBatchSize = 50
)

// NotificationResender sends a stored notification payload again.
type NotificationResender interface {
	Resend(ctx context.Context, payload []byte) error
}

// OutboxRelayJob retries the side effects parked in the outbox:
// notifications go back to the dispatcher, cart clears back to the cart store.
type OutboxRelayJob struct {
	outbox   ports.OutboxRepository
	resender NotificationResender
	cart     ports.CartClearer
	spec     string
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time
}

func NewOutboxRelayJob(
	outbox ports.OutboxRepository,
	resender NotificationResender,
	cart ports.CartClearer,
	spec string,
	logger *slog.Logger,
) *OutboxRelayJob {
	return &OutboxRelayJob{
		outbox:   outbox,
		resender: resender,
		cart:     cart,
		spec:     spec,
		cron:     newCron(),
		logger:   logger.With("component", "outbox_relay_job"),
		now:      time.Now,
	}
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("outbox relay job started", "schedule", j.spec)
	return nil
}

func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("outbox relay job stopped")
}

// RunOnce relays one batch of pending messages and returns how many were sent.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) int {
	pending, err := j.outbox.FetchPending(ctx, MaxOutboxAttempts, outboxBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "failed to load pending outbox messages", "error", err)
		return 0
	}

	sent := 0
	for _, msg := range pending {
		logger := j.logger.With("outbox_id", msg.ID.String(), "topic", msg.Topic, "key", msg.Key)

		if err = j.relay(ctx, msg); err != nil {
			logger.WarnContext(ctx, "outbox relay failed", "attempt", msg.Attempts+1, "error", err)
			if markErr := j.outbox.MarkFailed(ctx, msg.ID, err); markErr != nil {
				logger.ErrorContext(ctx, "failed to record outbox failure", "error", markErr)
			}
			continue
		}

		if err = j.outbox.MarkSent(ctx, msg.ID, j.now().UTC()); err != nil {
			logger.ErrorContext(ctx, "failed to mark outbox message sent", "error", err)
			continue
		}
		sent++
	}
	return sent
}

func (j *OutboxRelayJob) relay(ctx context.Context, msg ports.OutboxMessage) error {
	switch msg.Topic {
	case ports.OutboxTopicNotification:
		return j.resender.Resend(ctx, msg.Payload)
	case ports.OutboxTopicCartClear:
		return j.cart.ClearCart(ctx, string(msg.Payload))
	default:
		return fmt.Errorf("unknown outbox topic %q", msg.Topic)
	}
}
