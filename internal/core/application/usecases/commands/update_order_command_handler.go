package commands

import (
	"context"
	"log/slog"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// UpdateOrderCommandHandler applies a status change and a payment change as one
// compare-and-swap write. Both are checked against the loaded order before
// anything is persisted, so a rejected payment change leaves the status untouched.
type UpdateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   Notifier
	metrics    ports.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

func NewUpdateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier Notifier,
	metrics ports.Metrics,
	logger *slog.Logger,
) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger.With("component", "update-order"),
		now:        time.Now,
	}
}

func (h UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := requireAdmin(cmd.Principal(), "update order"); err != nil {
		return nil, err
	}

	status, payment := cmd.Status(), cmd.Payment()
	var correction bool
	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		now := h.now().UTC()
		if err := o.ChangeStatus(status.Status(), status.Note(), now); err != nil {
			return err
		}
		var changeErr error
		correction, changeErr = o.ChangePaymentStatus(payment.PaymentStatus(), payment.Note(), now)
		return changeErr
	}, func(ctx context.Context, repo ports.OrderRepository, o *order.Order) error {
		if err := persistStatus(ctx, repo, o); err != nil {
			return err
		}
		return persistPayment(ctx, repo, o)
	})
	if err != nil {
		return nil, err
	}

	h.metrics.StatusTransition(o.Status().String())
	if correction {
		h.logger.Warn("payment status corrected",
			"order_number", o.Number(),
			"admin_id", cmd.Principal().ID(),
			"payment_status", o.PaymentStatus().String(),
		)
	}
	if o.Status() == order.Delivered {
		h.notifier.OrderDelivered(ctx, o)
	}

	return o, nil
}
