package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockAutoDeliverer struct{ mock.Mock }

func (m *MockAutoDeliverer) Handle(
	ctx context.Context,
	cmd commands.AutoDeliverOrderCommand,
) (services.AutoDeliveryOutcome, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(services.AutoDeliveryOutcome), args.Error(1)
}

type MockSchedule struct{ mock.Mock }

func (m *MockSchedule) Schedule(ctx context.Context, orderID kernel.UUID, dueAt time.Time) error {
	args := m.Called(ctx, orderID, dueAt)
	return args.Error(0)
}

func (m *MockSchedule) Due(ctx context.Context, now time.Time, maxAttempts, limit int) ([]ports.ScheduledDelivery, error) {
	args := m.Called(ctx, now, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.ScheduledDelivery), args.Error(1)
}

func (m *MockSchedule) MarkProcessed(ctx context.Context, orderID kernel.UUID, at time.Time) error {
	args := m.Called(ctx, orderID, at)
	return args.Error(0)
}

func (m *MockSchedule) MarkFailed(ctx context.Context, orderID kernel.UUID, cause error) error {
	args := m.Called(ctx, orderID, cause)
	return args.Error(0)
}

type MockOutbox struct{ mock.Mock }

func (m *MockOutbox) Insert(ctx context.Context, msg ports.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOutbox) FetchPending(ctx context.Context, maxAttempts, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxMessage), args.Error(1)
}

func (m *MockOutbox) MarkSent(ctx context.Context, id kernel.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockOutbox) MarkFailed(ctx context.Context, id kernel.UUID, cause error) error {
	args := m.Called(ctx, id, cause)
	return args.Error(0)
}

type MockResender struct{ mock.Mock }

func (m *MockResender) Resend(ctx context.Context, payload []byte) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockCart struct{ mock.Mock }

func (m *MockCart) ClearCart(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func forOrder(id kernel.UUID) any {
	return mock.MatchedBy(func(cmd commands.AutoDeliverOrderCommand) bool {
		return cmd.OrderID().IsEqual(id)
	})
}
