package commands

import (
	"context"
	"time"

	"pickup/internal/core/application/pickuptoken"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/pkg/clock"
)

// ChangeOrderStatusResult is the outcome of a successful status change. Token,
// PickupToken and TokenExpiresAt are only set when the order became READY_FOR_PICKUP;
// TokenExpiresAt stays nil when tokens never expire.
type ChangeOrderStatusResult struct {
	Order          *order.Order
	Token          *pickup.Token
	PickupToken    string
	TokenExpiresAt *time.Time
}

// ChangeOrderStatusCommandHandler applies a requested status change inside one unit of
// work, together with its side effects:
//   - READY_FOR_PICKUP issues the pickup token
//   - CANCELLED revokes a live pickup token, if any
//
// Example:
//
//	cmd, _ := NewChangeOrderStatusCommand(orderID, order.ReadyForPickup, seller)
//	res, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.PickupToken)
type ChangeOrderStatusCommandHandler struct {
	uowFactory PickupUoWFactory
	tokens     *pickuptoken.Service
	clock      clock.Clock
}

// NewChangeOrderStatusCommandHandler creates a handler for status change requests.
func NewChangeOrderStatusCommandHandler(
	uowFactory PickupUoWFactory,
	tokens *pickuptoken.Service,
	clk clock.Clock,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		tokens:     tokens,
		clock:      clk,
	}
}

// Handle processes the command. The order is read inside the transaction and written
// back with a compare-and-set, so a concurrent change makes this one fail with
// order.ErrInvalidTransition instead of overwriting it.
func (h ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (ChangeOrderStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return ChangeOrderStatusResult{}, err
	}

	now := h.clock.Now()
	if err = o.Apply(cmd.Target(), cmd.Actor(), now); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	var (
		token  *pickup.Token
		opaque string
	)
	switch cmd.Target() {
	case order.ReadyForPickup:
		token, opaque, err = h.tokens.Issue(ctx, uow.PickupTokenRepository(), o.ID(), o.BranchID())
	case order.Cancelled:
		err = h.tokens.Revoke(ctx, uow.PickupTokenRepository(), o.ID())
	default:
	}
	if err != nil {
		return ChangeOrderStatusResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	res := ChangeOrderStatusResult{Order: o, Token: token, PickupToken: opaque}
	if token != nil && h.tokens.TTL() > 0 {
		exp := token.IssuedAt().Add(h.tokens.TTL())
		res.TokenExpiresAt = &exp
	}
	return res, nil
}
