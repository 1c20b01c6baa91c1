package commands

import (
	"errors"
	"fmt"
	"strings"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderItem is one cart line as submitted by the client.
type CreateOrderItem struct {
	FoodItemID string
	Quantity   int
	Price      int64
	Notes      string
}

// CreateOrderCommand represents a checkout: a cart snapshot plus delivery and payment details.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(principal, restaurantID,
//	    []CreateOrderItem{{FoodItemID: foodID, Quantity: 2, Price: 1500}},
//	    "1 Main St", "Ann", "+1 555 0100", "cash", "", "", 0)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	principal           kernel.Principal
	restaurantID        kernel.UUID
	items               []order.LineItem
	deliveryAddress     string
	contactName         string
	contactPhone        string
	paymentMethod       order.PaymentMethod
	specialInstructions string
	transferProof       string
	discount            int64

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates every field and joins all problems into one error.
// An unauthenticated principal is rejected before anything else.
func NewCreateOrderCommand(
	principal kernel.Principal,
	restaurantID string,
	items []CreateOrderItem,
	deliveryAddress, contactName, contactPhone string,
	paymentMethod string,
	specialInstructions, transferProof string,
	discount int64,
) (CreateOrderCommand, error) {
	if !principal.IsAuthenticated() {
		return CreateOrderCommand{}, errs.NewUnauthenticatedError("checkout requires a signed-in customer")
	}

	cmd := CreateOrderCommand{
		principal:           principal,
		specialInstructions: strings.TrimSpace(specialInstructions),
		transferProof:       strings.TrimSpace(transferProof),
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRestaurantID(restaurantID),
		cmd.setItems(items),
		cmd.setRequired("deliveryAddress", deliveryAddress, &cmd.deliveryAddress),
		cmd.setRequired("contactName", contactName, &cmd.contactName),
		cmd.setRequired("contactPhone", contactPhone, &cmd.contactPhone),
		cmd.setPaymentMethod(paymentMethod),
		cmd.setDiscount(discount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Principal() kernel.Principal {
	return c.principal
}

func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

func (c CreateOrderCommand) Items() []order.LineItem {
	return append([]order.LineItem(nil), c.items...)
}

func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c CreateOrderCommand) ContactName() string {
	return c.contactName
}

func (c CreateOrderCommand) ContactPhone() string {
	return c.contactPhone
}

func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c CreateOrderCommand) SpecialInstructions() string {
	return c.specialInstructions
}

func (c CreateOrderCommand) TransferProof() string {
	return c.transferProof
}

func (c CreateOrderCommand) Discount() int64 {
	return c.discount
}

func (c *CreateOrderCommand) setRestaurantID(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errs.NewValueIsRequiredError("restaurantId")
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("restaurantId", err)
	}
	c.restaurantID = id
	return nil
}

func (c *CreateOrderCommand) setItems(items []CreateOrderItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var problems []error
	lineItems := make([]order.LineItem, 0, len(items))
	for i, item := range items {
		foodID, err := kernel.UUIDFromString(item.FoodItemID)
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].id", i), err))
			continue
		}
		lineItem, err := order.NewLineItem(foodID, item.Quantity, item.Price, item.Notes)
		if err != nil {
			problems = append(problems, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		lineItems = append(lineItems, lineItem)
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	c.items = lineItems
	return nil
}

func (c *CreateOrderCommand) setRequired(name, value string, target *string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	*target = value
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errs.NewValueIsRequiredError("paymentMethod")
	}
	method, err := order.ParsePaymentMethod(raw)
	if err != nil {
		return err
	}
	c.paymentMethod = method
	return nil
}

func (c *CreateOrderCommand) setDiscount(discount int64) error {
	if discount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("discount", fmt.Errorf("%d is negative", discount))
	}
	c.discount = discount
	return nil
}
