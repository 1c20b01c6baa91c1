package commands

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels an order. Customers may cancel only their
// own orders; administrators may cancel any. Orders past confirmed are
// rejected with *errs.InvalidTransitionError.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	metrics    ports.Metrics
	now        func() time.Time
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, metrics ports.Metrics) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	principal := cmd.Principal()
	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		if !principal.IsAdmin() && !o.IsOwnedBy(principal.ID()) {
			return errs.NewForbiddenError("cancel order")
		}
		return o.Cancel(cmd.Reason(), h.now().UTC())
	}, persistStatus)
	if err != nil {
		return nil, err
	}

	h.metrics.StatusTransition(o.Status().String())
	return o, nil
}
