// Package schedulerepo stores the durable auto-delivery timers.
package schedulerepo

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduledDeliveryDTO is one row of scheduled_deliveries.
type ScheduledDeliveryDTO struct {
	OrderID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	DueAt       time.Time
	Attempts    int
	ProcessedAt *time.Time
	LastError   string
	CreatedAt   time.Time
}

func (ScheduledDeliveryDTO) TableName() string {
	return "scheduled_deliveries"
}

// GormDeliveryScheduleRepository implements ports.DeliveryScheduleRepository using GORM.
type GormDeliveryScheduleRepository struct {
	db *gorm.DB
}

func NewGormDeliveryScheduleRepository(db *gorm.DB) *GormDeliveryScheduleRepository {
	return &GormDeliveryScheduleRepository{db: db}
}

func (r *GormDeliveryScheduleRepository) Schedule(ctx context.Context, orderID kernel.UUID, dueAt time.Time) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	row := ScheduledDeliveryDTO{
		OrderID:   orderID.Bytes(),
		DueAt:     dueAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *GormDeliveryScheduleRepository) Due(
	ctx context.Context,
	now time.Time,
	maxAttempts, limit int,
) ([]ports.ScheduledDelivery, error) {
	var rows []ScheduledDeliveryDTO
	err := r.db.WithContext(ctx).
		Where("processed_at IS NULL AND due_at <= ? AND attempts < ?", now.UTC(), maxAttempts).
		Order("due_at, order_id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	due := make([]ports.ScheduledDelivery, 0, len(rows))
	for _, row := range rows {
		due = append(due, ports.ScheduledDelivery{
			OrderID:  kernel.RestoreUUID(row.OrderID),
			DueAt:    row.DueAt.UTC(),
			Attempts: row.Attempts,
		})
	}
	return due, nil
}

func (r *GormDeliveryScheduleRepository) MarkProcessed(ctx context.Context, orderID kernel.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&ScheduledDeliveryDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Updates(map[string]any{"processed_at": at.UTC(), "last_error": ""})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("scheduledDelivery", orderID.String())
	}
	return nil
}

func (r *GormDeliveryScheduleRepository) MarkFailed(ctx context.Context, orderID kernel.UUID, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return r.db.WithContext(ctx).Model(&ScheduledDeliveryDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": message,
		}).Error
}
