// Package orderrepo persists order aggregates in PostgreSQL through GORM.
// An order spans three tables: orders, order_line_items and order_status_history.
package orderrepo

import (
	"errors"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row plus its child collections.
type OrderDTO struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber           string    `gorm:"uniqueIndex"`
	CustomerID            string    `gorm:"index"`
	CustomerEmail         string
	RestaurantID          uuid.UUID `gorm:"type:uuid;index"`
	Subtotal              int64
	DeliveryFee           int64
	Tax                   int64
	Discount              int64
	TotalAmount           int64
	DeliveryAddress       string
	ContactName           string
	ContactPhone          string
	SpecialInstructions   string
	Status                string `gorm:"index"`
	PaymentMethod         string
	PaymentStatus         string
	PaymentNote           string
	TransferProof         string
	EstimatedDeliveryTime time.Time
	DeliveredAt           *time.Time
	CancellationReason    string
	CreatedAt             time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime:false"`
	Version               int

	Items   []LineItemDTO     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []HistoryEntryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type LineItemDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"primaryKey;autoIncrement:false"`
	FoodItemID uuid.UUID `gorm:"type:uuid"`
	Quantity   int
	UnitPrice  int64
	Notes      string
}

func (LineItemDTO) TableName() string {
	return "order_line_items"
}

type HistoryEntryDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Status    string
	Notes     string
	ChangedAt time.Time
}

func (HistoryEntryDTO) TableName() string {
	return "order_status_history"
}

// fromDomain maps the aggregate and its whole history; used on insert.
func fromDomain(o *order.Order) OrderDTO {
	items := o.Items()
	itemDTOs := make([]LineItemDTO, 0, len(items))
	for i, item := range items {
		itemDTOs = append(itemDTOs, LineItemDTO{
			OrderID:    o.ID().Bytes(),
			Position:   i,
			FoodItemID: item.FoodItemID().Bytes(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice(),
			Notes:      item.Notes(),
		})
	}

	return OrderDTO{
		ID:                    o.ID().Bytes(),
		OrderNumber:           o.Number(),
		CustomerID:            o.CustomerID(),
		CustomerEmail:         o.CustomerEmail(),
		RestaurantID:          o.RestaurantID().Bytes(),
		Subtotal:              o.Subtotal(),
		DeliveryFee:           o.DeliveryFee(),
		Tax:                   o.Tax(),
		Discount:              o.Discount(),
		TotalAmount:           o.TotalAmount(),
		DeliveryAddress:       o.DeliveryAddress(),
		ContactName:           o.ContactName(),
		ContactPhone:          o.ContactPhone(),
		SpecialInstructions:   o.SpecialInstructions(),
		Status:                o.Status().String(),
		PaymentMethod:         o.PaymentMethod().String(),
		PaymentStatus:         o.PaymentStatus().String(),
		PaymentNote:           o.PaymentNote(),
		TransferProof:         o.TransferProof(),
		EstimatedDeliveryTime: o.EstimatedDeliveryTime(),
		DeliveredAt:           o.DeliveredAt(),
		CancellationReason:    o.CancellationReason(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
		Version:               1,
		Items:                 itemDTOs,
		History:               historyDTOs(o.ID(), o.History()),
	}
}

func historyDTOs(orderID kernel.UUID, entries []order.HistoryEntry) []HistoryEntryDTO {
	dtos := make([]HistoryEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, HistoryEntryDTO{
			OrderID:   orderID.Bytes(),
			Status:    entry.Status().String(),
			Notes:     entry.Notes(),
			ChangedAt: entry.Timestamp(),
		})
	}
	return dtos
}

// toDomain rebuilds the aggregate. Items and History must be preloaded in order.
func toDomain(dto OrderDTO) (*order.Order, error) {
	status, statusErr := order.ParseStatus(dto.Status)
	method, methodErr := order.ParsePaymentMethod(dto.PaymentMethod)
	paymentStatus, paymentErr := order.ParsePaymentStatus(dto.PaymentStatus)
	if err := errors.Join(statusErr, methodErr, paymentErr); err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, err := order.NewLineItem(kernel.RestoreUUID(itemDTO.FoodItemID), itemDTO.Quantity, itemDTO.UnitPrice, itemDTO.Notes)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, entryDTO := range dto.History {
		entryStatus, err := order.ParseStatus(entryDTO.Status)
		if err != nil {
			return nil, err
		}
		history = append(history, order.RestoreHistoryEntry(entryStatus, entryDTO.ChangedAt.UTC(), entryDTO.Notes))
	}

	var deliveredAt *time.Time
	if dto.DeliveredAt != nil {
		at := dto.DeliveredAt.UTC()
		deliveredAt = &at
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                    kernel.RestoreUUID(dto.ID),
		Number:                dto.OrderNumber,
		CustomerID:            dto.CustomerID,
		CustomerEmail:         dto.CustomerEmail,
		RestaurantID:          kernel.RestoreUUID(dto.RestaurantID),
		Items:                 items,
		Subtotal:              dto.Subtotal,
		DeliveryFee:           dto.DeliveryFee,
		Tax:                   dto.Tax,
		Discount:              dto.Discount,
		TotalAmount:           dto.TotalAmount,
		DeliveryAddress:       dto.DeliveryAddress,
		ContactName:           dto.ContactName,
		ContactPhone:          dto.ContactPhone,
		SpecialInstructions:   dto.SpecialInstructions,
		Status:                status,
		PaymentMethod:         method,
		PaymentStatus:         paymentStatus,
		PaymentNote:           dto.PaymentNote,
		TransferProof:         dto.TransferProof,
		EstimatedDeliveryTime: dto.EstimatedDeliveryTime.UTC(),
		DeliveredAt:           deliveredAt,
		CancellationReason:    dto.CancellationReason,
		History:               history,
		CreatedAt:             dto.CreatedAt.UTC(),
		UpdatedAt:             dto.UpdatedAt.UTC(),
		Version:               dto.Version,
	})
}
