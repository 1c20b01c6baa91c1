package commands_test

import (
	"testing"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForceOrderStatusCommandHandler_Handle(t *testing.T) {
	t.Run("skips the transition graph and records the admin", func(t *testing.T) {
		ctx := t.Context()
		o := newOrder(t, order.PaymentCash, "")
		factory, uow, repo := expectMutation(t, o, "UpdateStatus")
		metrics := new(MockMetrics)
		metrics.On("StatusTransition", "ready").Once()
		notifier := new(MockNotifier)
		cmd, err := commands.NewForceOrderStatusCommand(admin(t), o.ID().String(), "ready", "support escalation")
		require.NoError(t, err)

		updated, err := commands.NewForceOrderStatusCommandHandler(factory, notifier, metrics, discardLogger()).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Ready, updated.Status())
		history := updated.History()
		assert.Contains(t, history[len(history)-1].Notes(), "forced by admin-1")
		uow.AssertExpectations(t)
		repo.AssertExpectations(t)
		notifier.AssertNotCalled(t, "OrderDelivered")
	})

	t.Run("forced delivery notifies the customer", func(t *testing.T) {
		ctx := t.Context()
		o := newOrder(t, order.PaymentTransfer, "")
		factory, _, _ := expectMutation(t, o, "UpdateStatus")
		metrics := new(MockMetrics)
		metrics.On("StatusTransition", "delivered").Once()
		notifier := new(MockNotifier)
		notifier.On("OrderDelivered", ctx, o).Once()
		cmd, err := commands.NewForceOrderStatusCommand(admin(t), o.ID().String(), "delivered", "")
		require.NoError(t, err)

		updated, err := commands.NewForceOrderStatusCommandHandler(factory, notifier, metrics, discardLogger()).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.NotNil(t, updated.DeliveredAt())
		notifier.AssertExpectations(t)
	})

	t.Run("customers cannot force", func(t *testing.T) {
		o := newOrder(t, order.PaymentCash, "")
		factory := new(MockOrderUoWFactory)
		cmd, err := commands.NewForceOrderStatusCommand(customer(t, "customer-1"), o.ID().String(), "delivered", "")
		require.NoError(t, err)

		_, err = commands.NewForceOrderStatusCommandHandler(factory, new(MockNotifier), new(MockMetrics), discardLogger()).
			Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}
