package catalogrepo_test

import (
	"errors"
	"testing"
	"time"

	"ordering/internal/adapters/out/postgres/catalogrepo"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGateway(t *testing.T) (*catalogrepo.GormCatalogGateway, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gorm_postgres.New(gorm_postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return catalogrepo.NewGormCatalogGateway(db), mock
}

func TestGormCatalogGateway_GetRestaurant(t *testing.T) {
	id := kernel.NewUUID()

	t.Run("found", func(t *testing.T) {
		gateway, mock := newGateway(t)
		mock.ExpectQuery(`FROM restaurants WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "delivery_fee", "delivery_time_minutes"}).
				AddRow(id.String(), "Pasta Place", "555-0100", int64(500), 40))

		restaurant, err := gateway.GetRestaurant(t.Context(), id)

		require.NoError(t, err)
		assert.True(t, restaurant.ID.IsEqual(id))
		assert.Equal(t, "Pasta Place", restaurant.Name)
		assert.Equal(t, int64(500), restaurant.DeliveryFee)
		assert.Equal(t, 40*time.Minute, restaurant.DeliveryDuration)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown restaurant", func(t *testing.T) {
		gateway, mock := newGateway(t)
		mock.ExpectQuery(`FROM restaurants WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "delivery_fee", "delivery_time_minutes"}))

		_, err := gateway.GetRestaurant(t.Context(), id)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		gateway, mock := newGateway(t)
		mock.ExpectQuery(`FROM restaurants`).WillReturnError(errors.New("connection reset"))

		_, err := gateway.GetRestaurant(t.Context(), id)

		require.EqualError(t, err, "connection reset")
	})

	t.Run("nil id never reaches the database", func(t *testing.T) {
		gateway, mock := newGateway(t)

		_, err := gateway.GetRestaurant(t.Context(), kernel.UUID{})

		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCatalogGateway_FoodItemNames(t *testing.T) {
	t.Run("maps known items", func(t *testing.T) {
		gateway, mock := newGateway(t)
		pizza, pasta, gone := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
		mock.ExpectQuery(`SELECT id, name FROM food_items WHERE id IN \(\$1,\$2,\$3\)`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(pizza.String(), "Margherita").
				AddRow(pasta.String(), "Carbonara"))

		names, err := gateway.FoodItemNames(t.Context(), []kernel.UUID{pizza, pasta, gone})

		require.NoError(t, err)
		assert.Equal(t, map[kernel.UUID]string{pizza: "Margherita", pasta: "Carbonara"}, names)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no ids skips the query", func(t *testing.T) {
		gateway, mock := newGateway(t)

		names, err := gateway.FoodItemNames(t.Context(), nil)

		require.NoError(t, err)
		assert.Empty(t, names)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
