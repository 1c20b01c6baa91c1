// Package catalogrepo reads restaurants and food items from the catalog
// tables. The catalog subsystem owns those tables; nothing here writes to them.
package catalogrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogGateway implements ports.CatalogGateway with raw SQL over GORM.
type GormCatalogGateway struct {
	db *gorm.DB
}

func NewGormCatalogGateway(db *gorm.DB) *GormCatalogGateway {
	return &GormCatalogGateway{db: db}
}

func (g *GormCatalogGateway) GetRestaurant(ctx context.Context, id kernel.UUID) (ports.Restaurant, error) {
	if err := id.Validate(); err != nil {
		return ports.Restaurant{}, err
	}

	var (
		rawID   uuid.UUID
		name    string
		phone   string
		fee     int64
		minutes int
	)
	err := g.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			phone,
			delivery_fee,
			delivery_time_minutes
		FROM restaurants
		WHERE id = ?
	`, id.Bytes()).Row().Scan(&rawID, &name, &phone, &fee, &minutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.Restaurant{}, errs.NewObjectNotFoundError("restaurantId", id.String())
		}
		return ports.Restaurant{}, err
	}

	return ports.Restaurant{
		ID:               kernel.RestoreUUID(rawID),
		Name:             name,
		Phone:            phone,
		DeliveryFee:      fee,
		DeliveryDuration: time.Duration(minutes) * time.Minute,
	}, nil
}

func (g *GormCatalogGateway) FoodItemNames(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]string, error) {
	names := make(map[kernel.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	rows, err := g.db.WithContext(ctx).Raw(`SELECT id, name FROM food_items WHERE id IN ?`, raw).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err = rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[kernel.RestoreUUID(id)] = name
	}

	return names, rows.Err()
}
