package commands

import (
	"errors"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a buyer placing an order for pickup at a branch.
// Quantity and notes limits are enforced when the order aggregate is built.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), buyer, productID, branchID, 2, "")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	buyer     actor.Actor
	productID kernel.UUID
	branchID  kernel.UUID
	quantity  int
	notes     string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Returns a joined error describing every invalid argument.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	buyer actor.Actor,
	productID, branchID kernel.UUID,
	quantity int,
	notes string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		quantity: quantity,
		notes:    notes,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBuyer(buyer),
		cmd.setProductID(productID),
		cmd.setBranchID(branchID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID   { return c.orderID }
func (c CreateOrderCommand) Buyer() actor.Actor     { return c.buyer }
func (c CreateOrderCommand) ProductID() kernel.UUID { return c.productID }
func (c CreateOrderCommand) BranchID() kernel.UUID  { return c.branchID }
func (c CreateOrderCommand) Quantity() int          { return c.quantity }
func (c CreateOrderCommand) Notes() string          { return c.notes }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setBuyer(buyer actor.Actor) error {
	if err := buyer.Validate(); err != nil {
		return err
	}
	c.buyer = buyer
	return nil
}

func (c *CreateOrderCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	c.productID = productID
	return nil
}

func (c *CreateOrderCommand) setBranchID(branchID kernel.UUID) error {
	if err := branchID.Validate(); err != nil {
		return err
	}
	c.branchID = branchID
	return nil
}
