package jobs_test

import (
	"errors"
	"testing"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/ports"
	"ordering/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOutboxRelayJob_RunOnce(t *testing.T) {
	notification := ports.OutboxMessage{
		ID:      kernel.NewUUID(),
		Topic:   ports.OutboxTopicNotification,
		Key:     "ORD-20240301-00001",
		Payload: []byte(`{"kind":"new_order"}`),
	}
	cartClear := ports.OutboxMessage{
		ID:      kernel.NewUUID(),
		Topic:   ports.OutboxTopicCartClear,
		Key:     "customer-1",
		Payload: []byte("customer-1"),
	}

	t.Run("should route each topic and mark it sent", func(t *testing.T) {
		outbox := new(MockOutbox)
		outbox.On("FetchPending", mock.Anything, jobs.MaxOutboxAttempts, 50).
			Return([]ports.OutboxMessage{notification, cartClear}, nil).Once()
		outbox.On("MarkSent", mock.Anything, notification.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()
		outbox.On("MarkSent", mock.Anything, cartClear.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()
		resender := new(MockResender)
		resender.On("Resend", mock.Anything, notification.Payload).Return(nil).Once()
		cart := new(MockCart)
		cart.On("ClearCart", mock.Anything, "customer-1").Return(nil).Once()
		job := jobs.NewOutboxRelayJob(outbox, resender, cart, "@every 30s", discardLogger())

		sent := job.RunOnce(t.Context())

		assert.Equal(t, 2, sent)
		outbox.AssertExpectations(t)
		resender.AssertExpectations(t)
		cart.AssertExpectations(t)
	})

	t.Run("should count failures", func(t *testing.T) {
		cause := errors.New("smtp still down")
		outbox := new(MockOutbox)
		outbox.On("FetchPending", mock.Anything, mock.Anything, mock.Anything).
			Return([]ports.OutboxMessage{notification}, nil).Once()
		outbox.On("MarkFailed", mock.Anything, notification.ID, cause).Return(nil).Once()
		resender := new(MockResender)
		resender.On("Resend", mock.Anything, notification.Payload).Return(cause).Once()
		job := jobs.NewOutboxRelayJob(outbox, resender, new(MockCart), "@every 30s", discardLogger())

		assert.Zero(t, job.RunOnce(t.Context()))
		outbox.AssertExpectations(t)
		outbox.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should fail unknown topics", func(t *testing.T) {
		unknown := ports.OutboxMessage{ID: kernel.NewUUID(), Topic: "sms"}
		outbox := new(MockOutbox)
		outbox.On("FetchPending", mock.Anything, mock.Anything, mock.Anything).
			Return([]ports.OutboxMessage{unknown}, nil).Once()
		outbox.On("MarkFailed", mock.Anything, unknown.ID, mock.MatchedBy(func(err error) bool {
			return err.Error() == `unknown outbox topic "sms"`
		})).Return(nil).Once()
		job := jobs.NewOutboxRelayJob(outbox, new(MockResender), new(MockCart), "@every 30s", discardLogger())

		assert.Zero(t, job.RunOnce(t.Context()))
		outbox.AssertExpectations(t)
	})
}
