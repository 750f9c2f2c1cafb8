package commands

import (
	"errors"
	"fmt"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

var (
	ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
	)
)

// ChangeOrderStatusCommand asks to move an order into one of the statuses reachable
// through ordinary requests: PAYMENT_CONFIRMED, PREPARING, READY_FOR_PICKUP or
// CANCELLED. PICKED_UP is only reachable through RedeemPickupCommand.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   actor.Actor

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a status change request on behalf of by.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	by actor.Actor,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(by),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to move.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

// Actor returns who asks for the move.
func (c ChangeOrderStatusCommand) Actor() actor.Actor {
	return c.actor
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setTarget(target order.Status) error {
	switch target {
	case order.PaymentConfirmed, order.Preparing, order.ReadyForPickup, order.Cancelled:
		c.target = target
		return nil
	case order.Unknown, order.Pending, order.PickedUp:
	}
	return errs.NewValueIsInvalidErrorWithCause(
		"target status",
		fmt.Errorf("%s cannot be requested directly", target),
	)
}

func (c *ChangeOrderStatusCommand) setActor(by actor.Actor) error {
	if err := by.Validate(); err != nil {
		return err
	}
	c.actor = by
	return nil
}
