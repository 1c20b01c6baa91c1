package http_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockCreateOrder struct{ mock.Mock }

func (m *MockCreateOrder) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockUpdateStatus struct{ mock.Mock }

func (m *MockUpdateStatus) Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockUpdatePayment struct{ mock.Mock }

func (m *MockUpdatePayment) Handle(ctx context.Context, cmd commands.UpdatePaymentStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockUpdateOrder struct{ mock.Mock }

func (m *MockUpdateOrder) Handle(ctx context.Context, cmd commands.UpdateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockForceStatus struct{ mock.Mock }

func (m *MockForceStatus) Handle(ctx context.Context, cmd commands.ForceOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockCancel struct{ mock.Mock }

func (m *MockCancel) Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockByNumber struct{ mock.Mock }

func (m *MockByNumber) Handle(ctx context.Context, query queries.GetOrderByNumberQuery) (queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderView), args.Error(1)
}

type MockCustomerOrders struct{ mock.Mock }

func (m *MockCustomerOrders) Handle(ctx context.Context, query queries.GetCustomerOrdersQuery) ([]queries.OrderView, error) {
	args := m.Called(ctx, query)
	views, _ := args.Get(0).([]queries.OrderView)
	return views, args.Error(1)
}

type MockAdminOrders struct{ mock.Mock }

func (m *MockAdminOrders) Handle(ctx context.Context, query queries.ListAdminOrdersQuery) ([]queries.OrderView, error) {
	args := m.Called(ctx, query)
	views, _ := args.Get(0).([]queries.OrderView)
	return views, args.Error(1)
}

type MockStats struct{ mock.Mock }

func (m *MockStats) Handle(ctx context.Context, query queries.GetOrderStatsQuery) (queries.OrderStatsView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderStatsView), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func token(t *testing.T, subject, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": subject + "@example.com",
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func sampleOrder(t *testing.T) *order.Order {
	t.Helper()
	first, err := order.NewLineItem(kernel.NewUUID(), 2, 1500, "")
	require.NoError(t, err)
	second, err := order.NewLineItem(kernel.NewUUID(), 1, 500, "")
	require.NoError(t, err)
	o, err := order.NewOrder(order.Draft{
		ID:               kernel.NewUUID(),
		Number:           "ORD-20240301-00001",
		CustomerID:       "customer-1",
		CustomerEmail:    "customer-1@example.com",
		RestaurantID:     kernel.NewUUID(),
		Items:            []order.LineItem{first, second},
		DeliveryAddress:  "1 Main St",
		ContactName:      "Ann",
		ContactPhone:     "555",
		PaymentMethod:    order.PaymentCash,
		DeliveryFee:      500,
		DeliveryDuration: 30 * time.Minute,
		CreatedAt:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return o
}
