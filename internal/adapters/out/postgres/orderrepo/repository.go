package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	recentWindow  = 30 * 24 * time.Hour
	revenueWindow = 7

	uniqueViolationCode = "23505"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order with its items and history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ports.ErrDuplicateOrderNumber, aggregate.Number())
		}
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

// isUniqueViolation matches both gorm's translated error (TranslateError) and
// the raw driver error. Order ids are random UUIDs, so the only unique key a
// fresh insert can hit is the order number.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// UpdateStatus writes the status fields guarded by the loaded version.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, aggregate *order.Order) error {
	return r.update(ctx, aggregate, map[string]any{
		"status":              aggregate.Status().String(),
		"delivered_at":        aggregate.DeliveredAt(),
		"cancellation_reason": aggregate.CancellationReason(),
	})
}

// UpdatePayment writes the payment fields guarded by the loaded version.
func (r *GormOrderRepository) UpdatePayment(ctx context.Context, aggregate *order.Order) error {
	return r.update(ctx, aggregate, map[string]any{
		"payment_status": aggregate.PaymentStatus().String(),
		"payment_note":   aggregate.PaymentNote(),
	})
}

func (r *GormOrderRepository) update(ctx context.Context, aggregate *order.Order, fields map[string]any) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	fields["updated_at"] = aggregate.UpdatedAt()
	fields["version"] = gorm.Expr("version + 1")

	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", aggregate.ID().Bytes(), aggregate.Version()).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", aggregate.ID().Bytes()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("orderId", aggregate.ID().String())
		}
		return errs.NewConcurrentModificationError("order", aggregate.ID().String())
	}

	if entries := historyDTOs(aggregate.ID(), aggregate.NewHistoryEntries()); len(entries) > 0 {
		if err := db.Create(&entries).Error; err != nil {
			return err
		}
	}

	aggregate.MarkPersisted(aggregate.Version() + 1)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withChildren(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	var dto OrderDTO
	if err := r.withChildren(ctx).First(&dto, "order_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderNumber", number)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withChildren(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderRepository) FindForAdmin(ctx context.Context, filter ports.AdminOrderFilter) ([]*order.Order, error) {
	q := r.withChildren(ctx)
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.RestaurantID != nil {
		q = q.Where("restaurant_id = ?", filter.RestaurantID.Bytes())
	}
	if filter.DateFrom != nil {
		q = q.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("created_at <= ?", *filter.DateTo)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		q = q.Where("(order_number ILIKE ? OR contact_name ILIKE ? OR delivery_address ILIKE ?)", pattern, pattern, pattern)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = ports.DefaultAdminPageSize
	}

	var dtos []OrderDTO
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(filter.Offset).Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// Stats computes the dashboard aggregate. Revenue counts paid orders only;
// revenueByDay covers the seven calendar days (UTC) ending with now's day.
func (r *GormOrderRepository) Stats(ctx context.Context, now time.Time) (ports.OrderStats, error) {
	db := r.db.WithContext(ctx)
	now = now.UTC()
	stats := ports.OrderStats{OrdersByStatus: make(map[order.Status]int64)}

	rows, err := db.Raw(`SELECT status, COUNT(*) FROM orders GROUP BY status`).Rows()
	if err != nil {
		return ports.OrderStats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		var count int64
		if err = rows.Scan(&raw, &count); err != nil {
			return ports.OrderStats{}, err
		}
		status, parseErr := order.ParseStatus(raw)
		if parseErr != nil {
			return ports.OrderStats{}, parseErr
		}
		stats.OrdersByStatus[status] = count
		stats.TotalOrders += count
	}
	if err = rows.Err(); err != nil {
		return ports.OrderStats{}, err
	}
	stats.PendingOrders = stats.OrdersByStatus[order.Pending]

	err = db.Raw(`SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = ?`,
		order.PaymentPaid.String()).Scan(&stats.TotalRevenue).Error
	if err != nil {
		return ports.OrderStats{}, err
	}

	err = db.Raw(`SELECT COUNT(*) FROM orders WHERE created_at >= ?`, now.Add(-recentWindow)).
		Scan(&stats.RecentOrders).Error
	if err != nil {
		return ports.OrderStats{}, err
	}

	stats.RevenueByDay, err = r.revenueByDay(ctx, now)
	if err != nil {
		return ports.OrderStats{}, err
	}

	return stats, nil
}

func (r *GormOrderRepository) revenueByDay(ctx context.Context, now time.Time) ([]ports.DailyRevenue, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(revenueWindow - 1))

	type dayRevenue struct {
		Day     string
		Revenue int64
	}
	var sums []dayRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
			SUM(total_amount) AS revenue
		FROM orders
		WHERE payment_status = ? AND created_at >= ?
		GROUP BY day
	`, order.PaymentPaid.String(), start).Scan(&sums).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int64, len(sums))
	for _, sum := range sums {
		byDay[sum.Day] = sum.Revenue
	}

	days := make([]ports.DailyRevenue, 0, revenueWindow)
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		days = append(days, ports.DailyRevenue{Day: day, Revenue: byDay[day.Format(time.DateOnly)]})
	}
	return days, nil
}

func (r *GormOrderRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
