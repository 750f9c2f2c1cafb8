package commands

import (
	"context"
	"fmt"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/clock"
	"pickup/internal/pkg/errs"
)

// CreateOrderCommandHandler places a PENDING order. The seller and the unit price come
// from the product catalog; the total is unit price times quantity.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.ProductCatalog
	clock      clock.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.ProductCatalog,
	clk clock.Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		clock:      clk,
	}
}

// Handle processes the order creation command and returns the stored order.
//
// Returns:
//   - *order.UnauthorizedError when the actor is not a buyer
//   - *errs.ObjectNotFoundError when the product does not exist
//   - validation errors for inactive products, quantity or notes
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if cmd.Buyer().Role() != actor.RoleBuyer {
		return nil, order.NewUnauthorizedError(cmd.Buyer(), order.Pending, "only buyers place orders")
	}

	product, err := h.catalog.GetProduct(ctx, cmd.ProductID())
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"product",
			fmt.Errorf("product %s is not available", product.ID),
		)
	}

	total, err := product.UnitPrice.Times(cmd.Quantity())
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Buyer().ID(),
		product.SellerID,
		product.ID,
		cmd.BranchID(),
		cmd.Quantity(),
		total,
		cmd.Notes(),
		h.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
