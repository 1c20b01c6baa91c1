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
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
)

// UpdateOrderStatusCommand requests a guarded status transition.
// For a transition into cancelled the note becomes the cancellation reason.
type UpdateOrderStatusCommand struct {
	principal kernel.Principal
	orderID   kernel.UUID
	status    order.Status
	note      string

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(
	principal kernel.Principal,
	orderID string,
	status string,
	note string,
) (UpdateOrderStatusCommand, error) {
	if err := requireAuthenticated(principal); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	id, idErr := parseOrderID(orderID)
	var statusErr error
	parsed := order.Unknown
	if strings.TrimSpace(status) == "" {
		statusErr = errs.NewValueIsRequiredError("status")
	} else {
		parsed, statusErr = order.ParseStatus(status)
	}
	if err := errors.Join(idErr, statusErr); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return UpdateOrderStatusCommand{
		principal: principal,
		orderID:   id,
		status:    parsed,
		note:      strings.TrimSpace(note),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) Principal() kernel.Principal {
	return c.principal
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c UpdateOrderStatusCommand) Note() string {
	return c.note
}
