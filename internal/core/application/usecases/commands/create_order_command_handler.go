package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// maxOrderNumberAttempts bounds how often creation draws a new number after a collision.
const maxOrderNumberAttempts = 3

// CreateOrderSettings are the environment-driven knobs of order creation.
type CreateOrderSettings struct {
	// TaxBasisPoints is applied to the subtotal (1000 = 10%).
	TaxBasisPoints int64

	// AutoDeliveryDelay is how long after creation the auto-delivery check fires.
	AutoDeliveryDelay time.Duration
}

// CreateOrderCommandHandler turns a checkout into a persisted order.
//
// The order, its first history entry and its auto-delivery schedule are
// written in one transaction. A collision on the order number rolls the
// transaction back and retries under a new number. Afterwards the customer's cart is cleared and
// the creation messages are dispatched; a failure in either is logged and
// parked in the outbox, never returned.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, numbers, cart, dispatcher, metrics, logger, settings)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown restaurant
//	}
type CreateOrderCommandHandler struct {
	uowFactory LifecycleUoWFactory
	catalog    ports.CatalogGateway
	numbers    ports.OrderNumberGenerator
	cart       ports.CartClearer
	notifier   Notifier
	metrics    ports.Metrics
	logger     *slog.Logger
	settings   CreateOrderSettings
	now        func() time.Time
}

func NewCreateOrderCommandHandler(
	uowFactory LifecycleUoWFactory,
	catalog ports.CatalogGateway,
	numbers ports.OrderNumberGenerator,
	cart ports.CartClearer,
	notifier Notifier,
	metrics ports.Metrics,
	logger *slog.Logger,
	settings CreateOrderSettings,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		numbers:    numbers,
		cart:       cart,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger.With("component", "create-order"),
		settings:   settings,
		now:        time.Now,
	}
}

// WithClock returns a copy of the handler using now as its time source.
func (h CreateOrderCommandHandler) WithClock(now func() time.Time) CreateOrderCommandHandler {
	h.now = now
	return h
}

// Handle creates the order and returns it.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	restaurant, err := h.catalog.GetRestaurant(ctx, cmd.RestaurantID())
	if err != nil {
		return nil, err
	}

	now := h.now().UTC()
	var o *order.Order
	for attempt := 1; ; attempt++ {
		if o, err = h.open(ctx, cmd, restaurant, now); err != nil {
			return nil, err
		}
		err = h.persist(ctx, o, now.Add(h.settings.AutoDeliveryDelay))
		if err == nil {
			break
		}
		if !errors.Is(err, ports.ErrDuplicateOrderNumber) || attempt == maxOrderNumberAttempts {
			return nil, err
		}
		h.logger.Warn("order number taken, drawing a new one", "order_number", o.Number(), "attempt", attempt)
	}

	h.metrics.OrderCreated(o.PaymentMethod().String())
	h.logger.Info("order created",
		"order_id", o.ID().String(),
		"order_number", o.Number(),
		"payment_method", o.PaymentMethod().String(),
		"status", o.Status().String(),
	)

	h.clearCart(ctx, o)
	h.notifier.OrderCreated(ctx, o)

	return o, nil
}

// open builds the aggregate under a freshly drawn order number.
func (h CreateOrderCommandHandler) open(
	ctx context.Context,
	cmd CreateOrderCommand,
	restaurant ports.Restaurant,
	now time.Time,
) (*order.Order, error) {
	number, err := h.numbers.Next(ctx, now)
	if err != nil {
		return nil, err
	}

	return order.NewOrder(order.Draft{
		ID:                  kernel.NewUUID(),
		Number:              number,
		CustomerID:          cmd.Principal().ID(),
		CustomerEmail:       cmd.Principal().Email(),
		RestaurantID:        restaurant.ID,
		Items:               cmd.Items(),
		DeliveryAddress:     cmd.DeliveryAddress(),
		ContactName:         cmd.ContactName(),
		ContactPhone:        cmd.ContactPhone(),
		SpecialInstructions: cmd.SpecialInstructions(),
		PaymentMethod:       cmd.PaymentMethod(),
		TransferProof:       cmd.TransferProof(),
		DeliveryFee:         restaurant.DeliveryFee,
		TaxBasisPoints:      h.settings.TaxBasisPoints,
		Discount:            cmd.Discount(),
		DeliveryDuration:    restaurant.DeliveryDuration,
		CreatedAt:           now,
	})
}

func (h CreateOrderCommandHandler) persist(ctx context.Context, o *order.Order, dueAt time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err := uow.DeliveryScheduleRepository().Schedule(ctx, o.ID(), dueAt); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// clearCart empties the cart; on failure the clear is queued for the outbox relay.
func (h CreateOrderCommandHandler) clearCart(ctx context.Context, o *order.Order) {
	err := h.cart.ClearCart(ctx, o.CustomerID())
	if err == nil {
		return
	}

	logger := h.logger.With("order_number", o.Number(), "customer_id", o.CustomerID())
	logger.Warn("failed to clear cart, queueing retry", "error", err)

	outboxErr := h.uowFactory.Create().OutboxRepository().Insert(context.WithoutCancel(ctx), ports.OutboxMessage{
		ID:        kernel.NewUUID(),
		Topic:     ports.OutboxTopicCartClear,
		Key:       o.CustomerID(),
		Payload:   []byte(o.CustomerID()),
		LastError: err.Error(),
		CreatedAt: h.now().UTC(),
	})
	if outboxErr != nil {
		logger.Error("failed to queue cart clear", "error", outboxErr)
	}
}
