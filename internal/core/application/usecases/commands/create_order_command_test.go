package commands_test

import (
	"testing"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems() []commands.CreateOrderItem {
	return []commands.CreateOrderItem{
		{FoodItemID: kernel.NewUUID().String(), Quantity: 2, Price: 1500},
		{FoodItemID: kernel.NewUUID().String(), Quantity: 1, Price: 500, Notes: "no onions"},
	}
}

func TestNewCreateOrderCommand(t *testing.T) {
	restaurantID := kernel.NewUUID().String()

	t.Run("valid", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(customer(t, "customer-1"), restaurantID, validItems(),
			" 1 Main St ", "Ann", "555", "Transfer", " ring twice ", "TX-1", 100)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, restaurantID, cmd.RestaurantID().String())
		assert.Equal(t, "1 Main St", cmd.DeliveryAddress())
		assert.Equal(t, order.PaymentTransfer, cmd.PaymentMethod())
		assert.Equal(t, "ring twice", cmd.SpecialInstructions())
		assert.Equal(t, "TX-1", cmd.TransferProof())
		assert.Equal(t, int64(100), cmd.Discount())
		require.Len(t, cmd.Items(), 2)
		assert.Equal(t, "no onions", cmd.Items()[1].Notes())
	})

	t.Run("unauthenticated caller", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.Principal{}, restaurantID, validItems(),
			"1 Main St", "Ann", "555", "cash", "", "", 0)

		require.ErrorIs(t, err, errs.ErrUnauthenticated)
	})

	t.Run("reports every missing field", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(customer(t, "customer-1"), "", nil, "", " ", "", "", "", "", 0)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		for _, field := range []string{"restaurantId", "items", "deliveryAddress", "contactName", "contactPhone", "paymentMethod"} {
			assert.Contains(t, err.Error(), field)
		}
	})

	t.Run("malformed values", func(t *testing.T) {
		items := []commands.CreateOrderItem{
			{FoodItemID: "not-a-uuid", Quantity: 1, Price: 100},
			{FoodItemID: kernel.NewUUID().String(), Quantity: 0, Price: -1},
		}

		_, err := commands.NewCreateOrderCommand(customer(t, "customer-1"), "nope", items,
			"1 Main St", "Ann", "555", "bitcoin", "", "", -5)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "restaurantId")
		assert.Contains(t, err.Error(), "items[0].id")
		assert.Contains(t, err.Error(), "items[1]")
		assert.Contains(t, err.Error(), "discount")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		require.ErrorIs(t, commands.CreateOrderCommand{}.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}
