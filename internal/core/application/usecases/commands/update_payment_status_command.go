package commands

import (
	"errors"
	"strings"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrUpdatePaymentStatusCommandIsNotConstructed = errors.New(
		"UpdatePaymentStatusCommand must be created via NewUpdatePaymentStatusCommand constructor",
	)
)

// UpdatePaymentStatusCommand moves the payment axis of an order.
type UpdatePaymentStatusCommand struct {
	principal     kernel.Principal
	orderID       kernel.UUID
	paymentStatus order.PaymentStatus
	note          string

	guard guard.ConstructorGuard
}

func NewUpdatePaymentStatusCommand(
	principal kernel.Principal,
	orderID string,
	paymentStatus string,
	note string,
) (UpdatePaymentStatusCommand, error) {
	if err := requireAuthenticated(principal); err != nil {
		return UpdatePaymentStatusCommand{}, err
	}

	id, idErr := parseOrderID(orderID)
	var statusErr error
	var parsed order.PaymentStatus
	if strings.TrimSpace(paymentStatus) == "" {
		statusErr = errs.NewValueIsRequiredError("paymentStatus")
	} else {
		parsed, statusErr = order.ParsePaymentStatus(paymentStatus)
	}
	if err := errors.Join(idErr, statusErr); err != nil {
		return UpdatePaymentStatusCommand{}, err
	}

	return UpdatePaymentStatusCommand{
		principal:     principal,
		orderID:       id,
		paymentStatus: parsed,
		note:          strings.TrimSpace(note),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c UpdatePaymentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePaymentStatusCommandIsNotConstructed)
}

func (c UpdatePaymentStatusCommand) Principal() kernel.Principal {
	return c.principal
}

func (c UpdatePaymentStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdatePaymentStatusCommand) PaymentStatus() order.PaymentStatus {
	return c.paymentStatus
}

func (c UpdatePaymentStatusCommand) Note() string {
	return c.note
}
