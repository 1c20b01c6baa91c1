package commands

import (
	"context"
	"log/slog"
	"time"

	"ordering/internal/core/domain/model/order"
)

// UpdatePaymentStatusCommandHandler lets an administrator record a payment
// outcome. Any value is accepted; moves off the pending->paid/failed graph are
// logged as corrections.
type UpdatePaymentStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

func NewUpdatePaymentStatusCommandHandler(uowFactory OrderUoWFactory, logger *slog.Logger) UpdatePaymentStatusCommandHandler {
	return UpdatePaymentStatusCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "update-payment-status"),
		now:        time.Now,
	}
}

func (h UpdatePaymentStatusCommandHandler) Handle(ctx context.Context, cmd UpdatePaymentStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := requireAdmin(cmd.Principal(), "update payment status"); err != nil {
		return nil, err
	}

	var correction bool
	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		var changeErr error
		correction, changeErr = o.ChangePaymentStatus(cmd.PaymentStatus(), cmd.Note(), h.now().UTC())
		return changeErr
	}, persistPayment)
	if err != nil {
		return nil, err
	}

	if correction {
		h.logger.Warn("payment status corrected",
			"order_number", o.Number(),
			"admin_id", cmd.Principal().ID(),
			"payment_status", o.PaymentStatus().String(),
		)
	}

	return o, nil
}
