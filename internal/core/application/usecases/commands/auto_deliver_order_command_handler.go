package commands

import (
	"context"
	"log/slog"
	"time"

	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"
)

// AutoDeliverOrderCommandHandler re-reads the persisted order and applies the
// auto-delivery policy. In the same transaction it marks the schedule row
// processed, so every outcome (delivered, already terminal, not eligible)
// consumes the row exactly once. Errors leave the row for the next tick.
type AutoDeliverOrderCommandHandler struct {
	uowFactory LifecycleUoWFactory
	policy     services.AutoDeliveryPolicy
	notifier   Notifier
	metrics    ports.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

func NewAutoDeliverOrderCommandHandler(
	uowFactory LifecycleUoWFactory,
	notifier Notifier,
	metrics ports.Metrics,
	logger *slog.Logger,
) AutoDeliverOrderCommandHandler {
	return AutoDeliverOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAutoDeliveryPolicy(),
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger.With("component", "auto-deliver-order"),
		now:        time.Now,
	}
}

func (h AutoDeliverOrderCommandHandler) Handle(
	ctx context.Context,
	cmd AutoDeliverOrderCommand,
) (services.AutoDeliveryOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}

	now := h.now().UTC()
	outcome, err := h.policy.Apply(o, now)
	if err != nil {
		return "", err
	}

	if outcome == services.OutcomeDelivered {
		if err = repo.UpdateStatus(ctx, o); err != nil {
			return "", err
		}
	}

	if err = uow.DeliveryScheduleRepository().MarkProcessed(ctx, o.ID(), now); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	h.metrics.AutoDeliveryRun(string(outcome))
	logger := h.logger.With("order_id", o.ID().String(), "order_number", o.Number(), "outcome", string(outcome))
	switch outcome {
	case services.OutcomeDelivered:
		logger.Info("order auto-delivered")
		h.metrics.StatusTransition(o.Status().String())
		h.notifier.OrderDelivered(ctx, o)
	case services.OutcomeNotEligible:
		logger.Info("order not eligible for auto-delivery",
			"status", o.Status().String(),
			"payment_method", o.PaymentMethod().String(),
			"payment_status", o.PaymentStatus().String(),
		)
	default:
		logger.Debug("auto-delivery skipped, order already terminal")
	}

	return outcome, nil
}
