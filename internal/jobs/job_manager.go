package jobs

import (
	"fmt"
	"log/slog"

	"ordering/internal/core/ports"
)

// Schedules holds the cron specs of the background jobs.
type Schedules struct {
	AutoDelivery string
	OutboxRelay  string
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	autoDeliveryJob *AutoDeliveryJob
	outboxRelayJob  *OutboxRelayJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	autoDeliverer AutoDeliverer,
	schedule ports.DeliveryScheduleRepository,
	outbox ports.OutboxRepository,
	resender NotificationResender,
	cart ports.CartClearer,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		autoDeliveryJob: NewAutoDeliveryJob(autoDeliverer, schedule, schedules.AutoDelivery, logger),
		outboxRelayJob:  NewOutboxRelayJob(outbox, resender, cart, schedules.OutboxRelay, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.autoDeliveryJob.Start(); err != nil {
		return fmt.Errorf("failed to start auto delivery job: %w", err)
	}

	if err := jm.outboxRelayJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.autoDeliveryJob.Stop()
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ticks.
func (jm *JobManager) StopAll() {
	jm.outboxRelayJob.Stop()
	jm.autoDeliveryJob.Stop()
}
