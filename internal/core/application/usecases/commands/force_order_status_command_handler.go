package commands

import (
	"context"
	"log/slog"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// ForceOrderStatusCommandHandler executes the administrative override. The
// history entry names the administrator; a forced delivery still notifies.
type ForceOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   Notifier
	metrics    ports.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

func NewForceOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	notifier Notifier,
	metrics ports.Metrics,
	logger *slog.Logger,
) ForceOrderStatusCommandHandler {
	return ForceOrderStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger.With("component", "force-order-status"),
		now:        time.Now,
	}
}

func (h ForceOrderStatusCommandHandler) Handle(ctx context.Context, cmd ForceOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := requireAdmin(cmd.Principal(), "force order status"); err != nil {
		return nil, err
	}

	var previous order.Status
	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		previous = o.Status()
		return o.ForceStatus(cmd.Status(), cmd.Principal().ID(), cmd.Note(), h.now().UTC())
	}, persistStatus)
	if err != nil {
		return nil, err
	}

	h.logger.Warn("order status forced",
		"order_id", o.ID().String(),
		"order_number", o.Number(),
		"admin_id", cmd.Principal().ID(),
		"from", previous.String(),
		"to", o.Status().String(),
	)
	h.metrics.StatusTransition(o.Status().String())
	if o.Status() == order.Delivered && previous != order.Delivered {
		h.notifier.OrderDelivered(ctx, o)
	}

	return o, nil
}
