package commands

import (
	"context"
	"errors"
	"fmt"

	"pickup/internal/core/application/pickuptoken"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/core/domain/services"
	"pickup/internal/pkg/clock"
)

// RedeemPickupResult is the outcome of a successful handover.
type RedeemPickupResult struct {
	Order        *order.Order
	Confirmation *pickup.Confirmation
}

// RedeemPickupCommandHandler coordinates a scan at the branch:
//
//  1. validate the token (read only)
//  2. reject a scan at the wrong branch
//  3. load the order
//  4. check readiness and apply PICKED_UP in memory
//  5. in the same transaction: write the order with a compare-and-set, consume the
//     token, insert the confirmation
//
// Every write in step 5 is conditional, so when two admins scan the same token at once
// exactly one transaction commits; the other finds nothing to update and fails with
// order.ErrAlreadyPickedUp. The handler never retries.
//
// The order row is written before the token row, the same order cancellation uses, so
// a scan racing a cancel waits on the order row instead of deadlocking.
type RedeemPickupCommandHandler struct {
	uowFactory PickupUoWFactory
	tokens     *pickuptoken.Service
	redeemer   services.PickupRedeemer
	clock      clock.Clock
}

// NewRedeemPickupCommandHandler creates a handler for pickup redemptions.
func NewRedeemPickupCommandHandler(
	uowFactory PickupUoWFactory,
	tokens *pickuptoken.Service,
	clk clock.Clock,
) RedeemPickupCommandHandler {
	return RedeemPickupCommandHandler{
		uowFactory: uowFactory,
		tokens:     tokens,
		redeemer:   services.NewPickupRedeemer(),
		clock:      clk,
	}
}

// Handle processes the redemption.
//
// Returns:
//   - pickup.ErrTokenInvalidOrExpired for forged, replaced, revoked or expired tokens
//   - order.ErrAlreadyPickedUp when the token was already redeemed (the error also
//     matches pickup.ErrTokenAlreadyConsumed when that was how it was detected)
//   - *pickup.BranchMismatchError when the admin works at another branch
//   - *errs.ObjectNotFoundError when the order no longer exists
//   - pickup.ErrTokenInvalidOrExpired when the order was cancelled after the token was read
//   - *order.InvalidTransitionError when the order is not READY_FOR_PICKUP
func (h RedeemPickupCommandHandler) Handle(ctx context.Context, cmd RedeemPickupCommand) (RedeemPickupResult, error) {
	if err := cmd.Validate(); err != nil {
		return RedeemPickupResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RedeemPickupResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tokenRepo := uow.PickupTokenRepository()

	token, err := h.tokens.Validate(ctx, tokenRepo, cmd.Token())
	if err != nil {
		return RedeemPickupResult{}, alreadyPickedUp(err)
	}

	if err = h.redeemer.CheckBranch(token, cmd.Admin()); err != nil {
		return RedeemPickupResult{}, err
	}

	o, err := uow.OrderRepository().Get(ctx, token.OrderID())
	if err != nil {
		return RedeemPickupResult{}, err
	}

	confirmation, err := h.redeemer.Redeem(o, token, cmd.Admin(), h.clock.Now())
	if err != nil {
		return RedeemPickupResult{}, lostRace(err)
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return RedeemPickupResult{}, lostRace(err)
	}

	if err = tokenRepo.Consume(ctx, token); err != nil {
		return RedeemPickupResult{}, alreadyPickedUp(err)
	}

	if err = uow.PickupConfirmationRepository().Add(ctx, confirmation); err != nil {
		return RedeemPickupResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RedeemPickupResult{}, err
	}

	return RedeemPickupResult{Order: o, Confirmation: confirmation}, nil
}

// alreadyPickedUp reports a consumed token as the order-level error the scanner shows,
// keeping the token-level cause matchable.
func alreadyPickedUp(err error) error {
	if errors.Is(err, pickup.ErrTokenAlreadyConsumed) {
		return fmt.Errorf("%w: %w", order.ErrAlreadyPickedUp, err)
	}
	return err
}

// lostRace translates a transition rejected because another transaction already moved
// the order. A picked up order reports order.ErrAlreadyPickedUp, a cancelled one the
// revoked token.
func lostRace(err error) error {
	var transition *order.InvalidTransitionError
	if !errors.As(err, &transition) {
		return err
	}
	switch transition.From {
	case order.PickedUp:
		return fmt.Errorf("%w: %w", order.ErrAlreadyPickedUp, err)
	case order.Cancelled:
		return fmt.Errorf("%w: order was cancelled", pickup.ErrTokenInvalidOrExpired)
	default:
		return err
	}
}
