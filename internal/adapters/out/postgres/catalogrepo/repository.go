package catalogrepo

import (
	"context"
	"errors"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormProductCatalog implements ports.ProductCatalog on the shared products table.
type GormProductCatalog struct {
	db *gorm.DB
}

func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

// GetProduct returns the product, active or not.
func (c *GormProductCatalog) GetProduct(ctx context.Context, id kernel.UUID) (ports.Product, error) {
	if err := id.Validate(); err != nil {
		return ports.Product{}, err
	}

	var dto ProductDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Product{}, errs.NewObjectNotFoundError("product", id.String())
		}
		return ports.Product{}, err
	}

	return toPort(dto)
}
