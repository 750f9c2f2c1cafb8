// Package catalogrepo reads the products orders are placed against. Products are
// maintained by the catalog service; this package never writes them.
package catalogrepo

import (
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO mirrors the products table.
type ProductDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SellerID  uuid.UUID       `gorm:"type:uuid;index"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Active    bool            `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func toPort(dto ProductDTO) (ports.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Product{}, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return ports.Product{}, err
	}
	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return ports.Product{}, err
	}

	return ports.Product{
		ID:        id,
		SellerID:  sellerID,
		UnitPrice: price,
		Active:    dto.Active,
	}, nil
}
