package commands_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"ordering/internal/core/application/notifications"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const autoDeliveryDelay = 2 * time.Minute

type createOrderFixture struct {
	restaurant ports.Restaurant
	catalog    *MockCatalog
	numbers    *MockNumbers
	cart       *MockCart
	notifier   *MockNotifier
	metrics    *MockMetrics
	factory    *MockLifecycleUoWFactory
	uow        *MockUoW
	repo       *MockOrderRepository
	schedule   *MockScheduleRepository
}

func newCreateOrderFixture() *createOrderFixture {
	return &createOrderFixture{
		restaurant: ports.Restaurant{
			ID:               kernel.NewUUID(),
			Name:             "Pasta Place",
			DeliveryFee:      500,
			DeliveryDuration: 40 * time.Minute,
		},
		catalog:  new(MockCatalog),
		numbers:  new(MockNumbers),
		cart:     new(MockCart),
		notifier: new(MockNotifier),
		metrics:  new(MockMetrics),
		factory:  new(MockLifecycleUoWFactory),
		uow:      new(MockUoW),
		repo:     new(MockOrderRepository),
		schedule: new(MockScheduleRepository),
	}
}

func (f *createOrderFixture) handler(notifier commands.Notifier) commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		f.factory, f.catalog, f.numbers, f.cart, notifier, f.metrics, discardLogger(),
		commands.CreateOrderSettings{AutoDeliveryDelay: autoDeliveryDelay},
	).WithClock(func() time.Time { return createdAt })
}

func (f *createOrderFixture) command(t *testing.T, method string) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(customer(t, "customer-1"), f.restaurant.ID.String(), validItems(),
		"1 Main St", "Ann", "555", method, "", "", 0)
	require.NoError(t, err)
	return cmd
}

// expectPersisted wires lookup, numbering and the creation transaction.
func (f *createOrderFixture) expectPersisted(t *testing.T) {
	ctx := t.Context()
	f.catalog.On("GetRestaurant", ctx, f.restaurant.ID).Return(f.restaurant, nil).Once()
	f.numbers.On("Next", ctx, createdAt).Return("ORD-20240301-00042", nil).Once()
	f.factory.On("Create").Return(f.uow).Once()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		f.uow.On("DeliveryScheduleRepository").Return(f.schedule).Once(),
		f.schedule.On("Schedule", ctx, mock.AnythingOfType("kernel.UUID"), createdAt.Add(autoDeliveryDelay)).
			Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
}

func (f *createOrderFixture) assertExpectations(t *testing.T) {
	f.catalog.AssertExpectations(t)
	f.numbers.AssertExpectations(t)
	f.cart.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.schedule.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CashOrder(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	f.expectPersisted(t)
	f.metrics.On("OrderCreated", "cash").Once()
	f.cart.On("ClearCart", ctx, "customer-1").Return(nil).Once()
	f.notifier.On("OrderCreated", ctx, mock.AnythingOfType("*order.Order")).Once()

	o, err := f.handler(f.notifier).Handle(ctx, f.command(t, "cash"))

	require.NoError(t, err)
	assert.Equal(t, "ORD-20240301-00042", o.Number())
	assert.Equal(t, int64(4000), o.TotalAmount())
	assert.Equal(t, order.Pending, o.Status())
	assert.Equal(t, order.PaymentPending, o.PaymentStatus())
	assert.Equal(t, "customer-1@example.com", o.CustomerEmail())
	assert.Equal(t, createdAt.Add(40*time.Minute), o.EstimatedDeliveryTime())
	require.Len(t, o.History(), 1)
	f.assertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CardOrderIsConfirmed(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	f.expectPersisted(t)
	f.metrics.On("OrderCreated", "card").Once()
	f.cart.On("ClearCart", ctx, "customer-1").Return(nil).Once()
	f.notifier.On("OrderCreated", ctx, mock.Anything).Once()

	o, err := f.handler(f.notifier).Handle(ctx, f.command(t, "card"))

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, o.Status())
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
}

func TestCreateOrderCommandHandler_Handle_SurvivesFailingNotifications(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	f.expectPersisted(t)
	f.metrics.On("OrderCreated", "cash").Once()
	f.metrics.On("NotificationFailed", mock.Anything).Twice()
	f.cart.On("ClearCart", ctx, "customer-1").Return(nil).Once()

	sender := new(failingSender)
	outbox := new(MockOutboxRepository)
	outbox.On("Insert", mock.Anything, mock.MatchedBy(func(msg ports.OutboxMessage) bool {
		return msg.Topic == ports.OutboxTopicNotification
	})).Return(errors.New("outbox down")).Twice()
	dispatcher := notifications.NewDispatcher(sender, outbox, f.metrics, discardLogger(),
		notifications.Config{AdminEmail: "ops@example.com", SendTimeout: time.Second})

	o, err := f.handler(dispatcher).Handle(ctx, f.command(t, "cash"))

	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, 2, sender.calls)
	f.assertExpectations(t)
	outbox.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_QueuesFailedCartClear(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	f.expectPersisted(t)
	f.metrics.On("OrderCreated", "cash").Once()
	f.cart.On("ClearCart", ctx, "customer-1").Return(errors.New("redis down")).Once()
	f.notifier.On("OrderCreated", ctx, mock.Anything).Once()

	outbox := new(MockOutboxRepository)
	outbox.On("Insert", mock.Anything, mock.MatchedBy(func(msg ports.OutboxMessage) bool {
		return msg.Topic == ports.OutboxTopicCartClear &&
			string(msg.Payload) == "customer-1" &&
			msg.LastError == "redis down"
	})).Return(nil).Once()
	outboxUoW := new(MockUoW)
	outboxUoW.On("OutboxRepository").Return(outbox).Once()
	f.factory.On("Create").Return(outboxUoW).Once()

	o, err := f.handler(f.notifier).Handle(ctx, f.command(t, "cash"))

	require.NoError(t, err)
	require.NotNil(t, o)
	outbox.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_UnknownRestaurant(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	f.catalog.On("GetRestaurant", ctx, f.restaurant.ID).
		Return(ports.Restaurant{}, errs.NewObjectNotFoundError("restaurantId", f.restaurant.ID)).Once()

	_, err := f.handler(f.notifier).Handle(ctx, f.command(t, "cash"))

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.factory.AssertNotCalled(t, "Create")
	f.notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_PersistenceErrorSkipsSideEffects(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	f.catalog.On("GetRestaurant", ctx, f.restaurant.ID).Return(f.restaurant, nil).Once()
	f.numbers.On("Next", ctx, createdAt).Return("ORD-20240301-00042", nil).Once()
	f.factory.On("Create").Return(f.uow).Once()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Add", ctx, mock.Anything).Return(nil).Once(),
		f.uow.On("DeliveryScheduleRepository").Return(f.schedule).Once(),
		f.schedule.On("Schedule", ctx, mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler(f.notifier).Handle(ctx, f.command(t, "cash"))

	require.EqualError(t, err, "insert failed")
	f.assertExpectations(t)
	f.cart.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_RetriesTakenOrderNumber(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	f.catalog.On("GetRestaurant", ctx, f.restaurant.ID).Return(f.restaurant, nil).Once()
	f.numbers.On("Next", ctx, createdAt).Return("ORD-20240301-00001", nil).Once()
	f.numbers.On("Next", ctx, createdAt).Return("ORD-20240301-00002", nil).Once()
	f.factory.On("Create").Return(f.uow).Twice()
	f.uow.On("Begin", ctx).Return(nil).Twice()
	f.uow.On("OrderRepository").Return(f.repo).Twice()
	f.repo.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool { return o.Number() == "ORD-20240301-00001" })).
		Return(fmt.Errorf("%w: ORD-20240301-00001", ports.ErrDuplicateOrderNumber)).Once()
	f.repo.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool { return o.Number() == "ORD-20240301-00002" })).
		Return(nil).Once()
	f.uow.On("DeliveryScheduleRepository").Return(f.schedule).Once()
	f.schedule.On("Schedule", ctx, mock.Anything, createdAt.Add(autoDeliveryDelay)).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Twice()
	f.metrics.On("OrderCreated", "cash").Once()
	f.cart.On("ClearCart", ctx, "customer-1").Return(nil).Once()
	f.notifier.On("OrderCreated", ctx, mock.Anything).Once()

	o, err := f.handler(f.notifier).Handle(ctx, f.command(t, "cash"))

	require.NoError(t, err)
	assert.Equal(t, "ORD-20240301-00002", o.Number())
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_GivesUpOnRepeatedNumberCollisions(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	f.catalog.On("GetRestaurant", ctx, f.restaurant.ID).Return(f.restaurant, nil).Once()
	f.numbers.On("Next", ctx, createdAt).Return("ORD-20240301-00001", nil).Times(3)
	f.factory.On("Create").Return(f.uow).Times(3)
	f.uow.On("Begin", ctx).Return(nil).Times(3)
	f.uow.On("OrderRepository").Return(f.repo).Times(3)
	f.repo.On("Add", ctx, mock.Anything).Return(ports.ErrDuplicateOrderNumber).Times(3)
	f.uow.On("Rollback", ctx).Return(nil).Times(3)

	_, err := f.handler(f.notifier).Handle(ctx, f.command(t, "cash"))

	require.ErrorIs(t, err, ports.ErrDuplicateOrderNumber)
	f.assertExpectations(t)
	f.notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	f := newCreateOrderFixture()

	_, err := f.handler(f.notifier).Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}
