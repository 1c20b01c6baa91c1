package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) GetByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderReader) FindForAdmin(ctx context.Context, filter ports.AdminOrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderReader) Stats(ctx context.Context, now time.Time) (ports.OrderStats, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(ports.OrderStats), args.Error(1)
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

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func principal(t *testing.T, id string, role kernel.Role) kernel.Principal {
	t.Helper()
	p, err := kernel.NewPrincipal(id, id+"@example.com", role)
	require.NoError(t, err)
	return p
}

func newOrder(t *testing.T, number string, foodID kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(foodID, 2, 1500, "extra cheese")
	require.NoError(t, err)
	o, err := order.NewOrder(order.Draft{
		ID:              kernel.NewUUID(),
		Number:          number,
		CustomerID:      "customer-1",
		RestaurantID:    kernel.NewUUID(),
		Items:           []order.LineItem{item},
		DeliveryAddress: "1 Main St",
		ContactName:     "Ann",
		ContactPhone:    "555",
		PaymentMethod:   order.PaymentCard,
		DeliveryFee:     500,
		CreatedAt:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return o
}
