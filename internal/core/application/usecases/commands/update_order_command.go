package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrUpdateOrderCommandIsNotConstructed = errors.New(
		"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
	)
)

// UpdateOrderCommand moves the status and the payment axis of one order in a
// single write. Both parts are validated by their own constructors.
type UpdateOrderCommand struct {
	status  UpdateOrderStatusCommand
	payment UpdatePaymentStatusCommand

	guard guard.ConstructorGuard
}

func NewUpdateOrderCommand(status UpdateOrderStatusCommand, payment UpdatePaymentStatusCommand) (UpdateOrderCommand, error) {
	if err := errors.Join(status.Validate(), payment.Validate()); err != nil {
		return UpdateOrderCommand{}, err
	}
	if status.OrderID() != payment.OrderID() {
		return UpdateOrderCommand{}, errs.NewValueIsInvalidError("orderId")
	}
	return UpdateOrderCommand{status: status, payment: payment, guard: guard.NewConstructorGuard()}, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) Principal() kernel.Principal {
	return c.status.Principal()
}

func (c UpdateOrderCommand) OrderID() kernel.UUID {
	return c.status.OrderID()
}

func (c UpdateOrderCommand) Status() UpdateOrderStatusCommand {
	return c.status
}

func (c UpdateOrderCommand) Payment() UpdatePaymentStatusCommand {
	return c.payment
}
