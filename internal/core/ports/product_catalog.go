package ports

import (
	"context"

	"pickup/internal/core/domain/model/kernel"
)

// Product is the catalog data an order needs when it is placed.
type Product struct {
	ID        kernel.UUID
	SellerID  kernel.UUID
	UnitPrice kernel.Money
	Active    bool
}

// ProductCatalog is a read-only view of the external product catalog.
type ProductCatalog interface {
	// GetProduct returns the product or *errs.ObjectNotFoundError.
	GetProduct(ctx context.Context, id kernel.UUID) (Product, error)
}
