package notifications_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"ordering/internal/core/application/notifications"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct{ mock.Mock }

func (m *MockSender) Send(ctx context.Context, msg ports.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockOutbox struct{ mock.Mock }

func (m *MockOutbox) Insert(ctx context.Context, msg ports.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) OrderCreated(method string) { m.Called(method) }
func (m *MockMetrics) StatusTransition(to string) { m.Called(to) }
func (m *MockMetrics) NotificationFailed(kind string) { m.Called(kind) }
func (m *MockMetrics) AutoDeliveryRun(outcome string) { m.Called(outcome) }

type panickingSender struct{}

func (panickingSender) Send(context.Context, ports.Message) error {
	panic("smtp exploded")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newOrder(t *testing.T, method order.PaymentMethod, email string) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), 2, 1500, "")
	require.NoError(t, err)
	o, err := order.NewOrder(order.Draft{
		ID:              kernel.NewUUID(),
		Number:          "ORD-20240301-00007",
		CustomerID:      "customer-1",
		CustomerEmail:   email,
		RestaurantID:    kernel.NewUUID(),
		Items:           []order.LineItem{item},
		DeliveryAddress: "1 Main St",
		ContactName:     "Ann",
		ContactPhone:    "555",
		PaymentMethod:   method,
		DeliveryFee:     500,
		CreatedAt:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return o
}

func kinds(messages []ports.Message) []string {
	result := make([]string, 0, len(messages))
	for _, msg := range messages {
		result = append(result, msg.Kind)
	}
	return result
}

func TestDispatcher_CreationMessages(t *testing.T) {
	cfg := notifications.Config{
		AdminEmail:  "ops@example.com",
		BankAccount: notifications.BankAccount{BankName: "First Bank", AccountNumber: "12-345", AccountHolder: "Food Co"},
	}
	d := notifications.NewDispatcher(new(MockSender), new(MockOutbox), new(MockMetrics), discardLogger(), cfg)

	t.Run("cash sends confirmation and admin alert", func(t *testing.T) {
		messages := d.CreationMessages(newOrder(t, order.PaymentCash, "ann@example.com"))

		assert.Equal(t, []string{notifications.KindOrderConfirmation, notifications.KindNewOrder}, kinds(messages))
		assert.Equal(t, "ann@example.com", messages[0].To)
		assert.Equal(t, "ops@example.com", messages[1].To)
		assert.Contains(t, messages[0].Body, "35.00")
	})

	t.Run("card sends payment received", func(t *testing.T) {
		messages := d.CreationMessages(newOrder(t, order.PaymentCard, "ann@example.com"))

		assert.Equal(t, []string{notifications.KindPaymentReceived, notifications.KindNewOrder}, kinds(messages))
	})

	t.Run("pending transfer sends instructions with QR attachment", func(t *testing.T) {
		messages := d.CreationMessages(newOrder(t, order.PaymentTransfer, "ann@example.com"))

		require.Equal(t, []string{notifications.KindTransferInstructions, notifications.KindNewOrder}, kinds(messages))
		instructions := messages[0]
		assert.Contains(t, instructions.Body, "12-345")
		assert.Contains(t, instructions.Body, "ORD-20240301-00007")
		require.Len(t, instructions.Attachments, 1)
		assert.Equal(t, "image/png", instructions.Attachments[0].ContentType)
		assert.Equal(t, []byte("\x89PNG"), instructions.Attachments[0].Content[:4])
	})

	t.Run("no admin alert without admin address", func(t *testing.T) {
		bare := notifications.NewDispatcher(new(MockSender), new(MockOutbox), new(MockMetrics), discardLogger(), notifications.Config{})

		messages := bare.CreationMessages(newOrder(t, order.PaymentCard, "ann@example.com"))

		assert.Equal(t, []string{notifications.KindPaymentReceived}, kinds(messages))
	})
}

func TestDispatcher_OrderCreated(t *testing.T) {
	cfg := notifications.Config{AdminEmail: "ops@example.com", SendTimeout: time.Second}

	t.Run("should send every message", func(t *testing.T) {
		sender := new(MockSender)
		sender.On("Send", mock.Anything, mock.AnythingOfType("ports.Message")).Return(nil).Twice()
		d := notifications.NewDispatcher(sender, new(MockOutbox), new(MockMetrics), discardLogger(), cfg)

		d.OrderCreated(t.Context(), newOrder(t, order.PaymentCash, "ann@example.com"))

		sender.AssertExpectations(t)
	})

	t.Run("should park failed messages in the outbox and count them", func(t *testing.T) {
		sender := new(MockSender)
		sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Twice()
		outbox := new(MockOutbox)
		outbox.On("Insert", mock.Anything, mock.MatchedBy(func(msg ports.OutboxMessage) bool {
			return msg.Topic == ports.OutboxTopicNotification &&
				msg.Key == "ORD-20240301-00007" &&
				msg.LastError == "smtp down"
		})).Return(nil).Twice()
		metrics := new(MockMetrics)
		metrics.On("NotificationFailed", notifications.KindPaymentReceived).Once()
		metrics.On("NotificationFailed", notifications.KindNewOrder).Once()
		d := notifications.NewDispatcher(sender, outbox, metrics, discardLogger(), cfg)

		assert.NotPanics(t, func() {
			d.OrderCreated(t.Context(), newOrder(t, order.PaymentCard, "ann@example.com"))
		})

		sender.AssertExpectations(t)
		outbox.AssertExpectations(t)
		metrics.AssertExpectations(t)
	})

	t.Run("should contain panicking transports", func(t *testing.T) {
		outbox := new(MockOutbox)
		outbox.On("Insert", mock.Anything, mock.Anything).Return(errors.New("db down"))
		metrics := new(MockMetrics)
		metrics.On("NotificationFailed", mock.Anything)
		d := notifications.NewDispatcher(panickingSender{}, outbox, metrics, discardLogger(), cfg)

		assert.NotPanics(t, func() {
			d.OrderCreated(t.Context(), newOrder(t, order.PaymentCash, "ann@example.com"))
		})
		metrics.AssertNumberOfCalls(t, "NotificationFailed", 2)
	})

	t.Run("should skip customer messages without an e-mail", func(t *testing.T) {
		sender := new(MockSender)
		sender.On("Send", mock.Anything, mock.MatchedBy(func(msg ports.Message) bool {
			return msg.Kind == notifications.KindNewOrder
		})).Return(nil).Once()
		d := notifications.NewDispatcher(sender, new(MockOutbox), new(MockMetrics), discardLogger(), cfg)

		d.OrderCreated(t.Context(), newOrder(t, order.PaymentCash, ""))

		sender.AssertExpectations(t)
	})
}

func TestDispatcher_OrderDelivered(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg ports.Message) bool {
		return msg.Kind == notifications.KindOrderDelivered && msg.To == "ann@example.com"
	})).Return(nil).Once()
	d := notifications.NewDispatcher(sender, new(MockOutbox), new(MockMetrics), discardLogger(), notifications.Config{})

	d.OrderDelivered(t.Context(), newOrder(t, order.PaymentCash, "ann@example.com"))

	sender.AssertExpectations(t)
}

func TestDispatcher_Resend(t *testing.T) {
	t.Run("should decode and send the stored message", func(t *testing.T) {
		msg := ports.Message{Kind: notifications.KindOrderDelivered, To: "ann@example.com", OrderNumber: "ORD-1"}
		payload, err := json.Marshal(msg)
		require.NoError(t, err)
		sender := new(MockSender)
		sender.On("Send", mock.Anything, msg).Return(errors.New("still down")).Once()
		d := notifications.NewDispatcher(sender, new(MockOutbox), new(MockMetrics), discardLogger(), notifications.Config{})

		err = d.Resend(t.Context(), payload)

		require.EqualError(t, err, "still down")
		sender.AssertExpectations(t)
	})

	t.Run("should reject corrupt payloads", func(t *testing.T) {
		d := notifications.NewDispatcher(new(MockSender), new(MockOutbox), new(MockMetrics), discardLogger(), notifications.Config{})

		require.Error(t, d.Resend(t.Context(), []byte("{")))
	})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "40.00", notifications.FormatAmount(4000))
	assert.Equal(t, "0.05", notifications.FormatAmount(5))
	assert.Equal(t, "-1.50", notifications.FormatAmount(-150))
}
