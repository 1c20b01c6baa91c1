package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdatePayment(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindForAdmin(ctx context.Context, filter ports.AdminOrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Stats(ctx context.Context, now time.Time) (ports.OrderStats, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(ports.OrderStats), args.Error(1)
}

type MockScheduleRepository struct{ mock.Mock }

func (m *MockScheduleRepository) Schedule(ctx context.Context, orderID kernel.UUID, dueAt time.Time) error {
	args := m.Called(ctx, orderID, dueAt)
	return args.Error(0)
}

func (m *MockScheduleRepository) Due(
	ctx context.Context,
	now time.Time,
	maxAttempts, limit int,
) ([]ports.ScheduledDelivery, error) {
	args := m.Called(ctx, now, maxAttempts, limit)
	return args.Get(0).([]ports.ScheduledDelivery), args.Error(1)
}

func (m *MockScheduleRepository) MarkProcessed(ctx context.Context, orderID kernel.UUID, at time.Time) error {
	args := m.Called(ctx, orderID, at)
	return args.Error(0)
}

func (m *MockScheduleRepository) MarkFailed(ctx context.Context, orderID kernel.UUID, cause error) error {
	args := m.Called(ctx, orderID, cause)
	return args.Error(0)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Insert(ctx context.Context, msg ports.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOutboxRepository) FetchPending(ctx context.Context, maxAttempts, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, maxAttempts, limit)
	return args.Get(0).([]ports.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkSent(ctx context.Context, id kernel.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id kernel.UUID, cause error) error {
	args := m.Called(ctx, id, cause)
	return args.Error(0)
}

// MockUoW satisfies both OrderUoW and LifecycleUoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DeliveryScheduleRepository() ports.DeliveryScheduleRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryScheduleRepository)
}

func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockLifecycleUoWFactory struct{ mock.Mock }

func (m *MockLifecycleUoWFactory) Create() commands.LifecycleUoW {
	args := m.Called()
	return args.Get(0).(commands.LifecycleUoW)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) GetRestaurant(ctx context.Context, id kernel.UUID) (ports.Restaurant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Restaurant), args.Error(1)
}

func (m *MockCatalog) FoodItemNames(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]string, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[kernel.UUID]string), args.Error(1)
}

type MockNumbers struct{ mock.Mock }

func (m *MockNumbers) Next(ctx context.Context, now time.Time) (string, error) {
	args := m.Called(ctx, now)
	return args.String(0), args.Error(1)
}

type MockCart struct{ mock.Mock }

func (m *MockCart) ClearCart(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) OrderCreated(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

func (m *MockNotifier) OrderDelivered(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) OrderCreated(method string)     { m.Called(method) }
func (m *MockMetrics) StatusTransition(to string)     { m.Called(to) }
func (m *MockMetrics) NotificationFailed(kind string) { m.Called(kind) }
func (m *MockMetrics) AutoDeliveryRun(outcome string) { m.Called(outcome) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func customer(t *testing.T, id string) kernel.Principal {
	t.Helper()
	p, err := kernel.NewPrincipal(id, id+"@example.com", kernel.RoleCustomer)
	require.NoError(t, err)
	return p
}

func admin(t *testing.T) kernel.Principal {
	t.Helper()
	p, err := kernel.NewPrincipal("admin-1", "ops@example.com", kernel.RoleAdmin)
	require.NoError(t, err)
	return p
}

var createdAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, method order.PaymentMethod, proof string) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), 2, 1500, "")
	require.NoError(t, err)
	o, err := order.NewOrder(order.Draft{
		ID:              kernel.NewUUID(),
		Number:          "ORD-20240301-00001",
		CustomerID:      "customer-1",
		CustomerEmail:   "customer-1@example.com",
		RestaurantID:    kernel.NewUUID(),
		Items:           []order.LineItem{item},
		DeliveryAddress: "1 Main St",
		ContactName:     "Ann",
		ContactPhone:    "555",
		PaymentMethod:   method,
		TransferProof:   proof,
		DeliveryFee:     500,
		CreatedAt:       createdAt,
	})
	require.NoError(t, err)
	return o
}

// expectMutation wires a successful Begin/Get/<persist>/Commit/Rollback sequence.
func expectMutation(t *testing.T, o *order.Order, persist string) (*MockOrderUoWFactory, *MockUoW, *MockOrderRepository) {
	t.Helper()
	ctx := t.Context()
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		repo.On(persist, ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow, repo
}

// expectRejectedMutation wires Begin/Get/Rollback for a mutation that must write nothing.
func expectRejectedMutation(t *testing.T, o *order.Order) (*MockOrderUoWFactory, *MockUoW, *MockOrderRepository) {
	t.Helper()
	ctx := t.Context()
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow, repo
}

type failingSender struct {
	calls int
}

func (s *failingSender) Send(context.Context, ports.Message) error {
	s.calls++
	return errors.New("smtp down")
}
