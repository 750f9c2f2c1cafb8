// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Timestamps come from the domain clock, so GORM's automatic time tracking is disabled.
type OrderDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID     uuid.UUID       `gorm:"type:uuid;index"`
	SellerID    uuid.UUID       `gorm:"type:uuid;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid"`
	BranchID    uuid.UUID       `gorm:"type:uuid;index:idx_orders_branch_status,priority:1"`
	Quantity    int             `gorm:"not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Notes       string          `gorm:"not null"`
	Status      int             `gorm:"type:smallint;not null;index:idx_orders_branch_status,priority:2"`
	CreatedAt   time.Time       `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime:false"`
	// RemindedAt is set once the buyer got a pickup reminder. It is not part of the
	// aggregate, so fromDomain leaves it nil.
	RemindedAt *time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:          o.ID().Bytes(),
		BuyerID:     o.BuyerID().Bytes(),
		SellerID:    o.SellerID().Bytes(),
		ProductID:   o.ProductID().Bytes(),
		BranchID:    o.BranchID().Bytes(),
		Quantity:    o.Quantity(),
		TotalAmount: o.Total().Decimal(),
		Notes:       o.Notes(),
		Status:      int(o.Status()),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
// The stored status becomes the aggregate's persisted status for the next conditional update.
func toDomain(dto OrderDTO) (*order.Order, error) {
	ids := make([]kernel.UUID, 0, 5)
	for _, raw := range []uuid.UUID{dto.ID, dto.BuyerID, dto.SellerID, dto.ProductID, dto.BranchID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		ids[0], ids[1], ids[2], ids[3], ids[4],
		dto.Quantity,
		total,
		dto.Notes,
		order.Status(dto.Status),
		dto.CreatedAt.UTC(),
		dto.UpdatedAt.UTC(),
	)
}
