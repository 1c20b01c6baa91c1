package commands

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// UpdateOrderStatusCommandHandler applies an administrator's guarded status change.
// Only edges of the transition graph are accepted; reaching delivered stamps
// deliveredAt and notifies the customer after the commit.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   Notifier
	metrics    ports.Metrics
	now        func() time.Time
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	notifier Notifier,
	metrics ports.Metrics,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := requireAdmin(cmd.Principal(), "update order status"); err != nil {
		return nil, err
	}

	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.ChangeStatus(cmd.Status(), cmd.Note(), h.now().UTC())
	}, persistStatus)
	if err != nil {
		return nil, err
	}

	h.metrics.StatusTransition(o.Status().String())
	if o.Status() == order.Delivered {
		h.notifier.OrderDelivered(ctx, o)
	}

	return o, nil
}
