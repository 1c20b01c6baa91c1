// Package outboxrepo keeps failed side effects for the relay job.
package outboxrepo

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutboxMessageDTO is one row of outbox_messages.
type OutboxMessageDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Topic      string
	MessageKey string
	Payload    []byte
	Attempts   int
	LastError  string
	CreatedAt  time.Time
	SentAt     *time.Time
}

func (OutboxMessageDTO) TableName() string {
	return "outbox_messages"
}

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Insert(ctx context.Context, msg ports.OutboxMessage) error {
	if err := msg.ID.Validate(); err != nil {
		return err
	}

	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := OutboxMessageDTO{
		ID:         msg.ID.Bytes(),
		Topic:      msg.Topic,
		MessageKey: msg.Key,
		Payload:    msg.Payload,
		Attempts:   msg.Attempts,
		LastError:  msg.LastError,
		CreatedAt:  createdAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GormOutboxRepository) FetchPending(ctx context.Context, maxAttempts, limit int) ([]ports.OutboxMessage, error) {
	var rows []OutboxMessageDTO
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL AND attempts < ?", maxAttempts).
		Order("created_at, id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			ID:        kernel.RestoreUUID(row.ID),
			Topic:     row.Topic,
			Key:       row.MessageKey,
			Payload:   row.Payload,
			Attempts:  row.Attempts,
			LastError: row.LastError,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkSent(ctx context.Context, id kernel.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&OutboxMessageDTO{}).
		Where("id = ?", id.Bytes()).
		Update("sent_at", at.UTC()).Error
}

func (r *GormOutboxRepository) MarkFailed(ctx context.Context, id kernel.UUID, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return r.db.WithContext(ctx).Model(&OutboxMessageDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": message,
		}).Error
}
