package jobs

import (
	"context"
	"log/slog"
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const (
	// MaxAutoDeliveryAttempts bounds how often a failing schedule row is retried.
	MaxAutoDeliveryAttempts = 5

	autoDeliveryBatchSize = 50
)

// AutoDeliverer runs the auto-delivery check of one order.
type AutoDeliverer interface {
	Handle(ctx context.Context, cmd commands.AutoDeliverOrderCommand) (services.AutoDeliveryOutcome, error)
}

// AutoDeliveryJob polls the due auto-delivery checks and runs them.
// A successful check marks its row processed inside the command's transaction;
// a failed one bumps the attempt counter and stays due for the next tick.
type AutoDeliveryJob struct {
	handler  AutoDeliverer
	schedule ports.DeliveryScheduleRepository
	spec     string
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time
}

func NewAutoDeliveryJob(
	handler AutoDeliverer,
	schedule ports.DeliveryScheduleRepository,
	spec string,
	logger *slog.Logger,
) *AutoDeliveryJob {
	return &AutoDeliveryJob{
		handler:  handler,
		schedule: schedule,
		spec:     spec,
		cron:     newCron(),
		logger:   logger.With("component", "auto_delivery_job"),
		now:      time.Now,
	}
}

func (j *AutoDeliveryJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("auto delivery job started", "schedule", j.spec)
	return nil
}

// Stop waits for a running tick to finish.
func (j *AutoDeliveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("auto delivery job stopped")
}

// RunOnce processes one batch of due checks and returns how many succeeded.
func (j *AutoDeliveryJob) RunOnce(ctx context.Context) int {
	due, err := j.schedule.Due(ctx, j.now().UTC(), MaxAutoDeliveryAttempts, autoDeliveryBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "failed to load due auto deliveries", "error", err)
		return 0
	}

	processed := 0
	for _, row := range due {
		if j.runOne(ctx, row) {
			processed++
		}
	}
	return processed
}

func (j *AutoDeliveryJob) runOne(ctx context.Context, row ports.ScheduledDelivery) bool {
	logger := j.logger.With("order_id", row.OrderID.String(), "attempt", row.Attempts+1)

	cmd, err := commands.NewAutoDeliverOrderCommand(row.OrderID)
	if err == nil {
		_, err = j.handler.Handle(ctx, cmd)
	}
	if err == nil {
		return true
	}

	logger.ErrorContext(ctx, "auto delivery check failed", "error", err)
	if markErr := j.schedule.MarkFailed(ctx, row.OrderID, err); markErr != nil {
		logger.ErrorContext(ctx, "failed to record auto delivery failure", "error", markErr)
	}
	if row.Attempts+1 >= MaxAutoDeliveryAttempts {
		logger.WarnContext(ctx, "auto delivery check gave up")
	}
	return false
}

// newCron runs with second precision and never overlaps ticks of one job.
func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}
