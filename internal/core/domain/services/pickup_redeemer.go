package services

import (
	"time"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/model/pickup"
)

// PickupRedeemer is a domain service performing the in-memory part of a pickup
// redemption: the branch check, the readiness check, and the three mutations that must
// commit together (token consumed, order picked up, confirmation created).
//
// Business rules:
//   - the token must belong to the order being redeemed
//   - the scanning admin must be assigned to the token's branch
//   - the order must be READY_FOR_PICKUP; an order already PICKED_UP (or a redeemed token)
//     is reported as order.ErrAlreadyPickedUp, any other status as an InvalidTransitionError
//   - nothing is mutated unless every rule holds
//
// Example usage:
//
//	confirmation, err := services.NewPickupRedeemer().Redeem(o, token, admin, now)
//	switch {
//	case errors.Is(err, pickup.ErrBranchMismatch):
//	    // wrong branch
//	case errors.Is(err, order.ErrAlreadyPickedUp):
//	    // somebody scanned it first
//	}
type PickupRedeemer struct{}

// NewPickupRedeemer creates a new PickupRedeemer instance.
func NewPickupRedeemer() PickupRedeemer {
	return PickupRedeemer{}
}

// Redeem checks the rules above and, when they hold, consumes token, applies PICKED_UP to
// o on behalf of admin and returns the new confirmation.
//
// Parameters:
//   - o: the order as read inside the redeeming transaction
//   - token: the stored token record, already validated against the presented string
//   - admin: the scanning branch admin
//   - now: redemption time
//
// Returns:
//   - *pickup.Confirmation on success
//   - *pickup.BranchMismatchError, order.ErrAlreadyPickedUp, *order.InvalidTransitionError,
//     *order.UnauthorizedError or pickup.ErrTokenInvalidOrExpired otherwise
func (r PickupRedeemer) Redeem(
	o *order.Order,
	token *pickup.Token,
	admin actor.Actor,
	now time.Time,
) (*pickup.Confirmation, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}
	if err := admin.Validate(); err != nil {
		return nil, err
	}

	if !token.OrderID().IsEqual(o.ID()) {
		return nil, pickup.ErrTokenInvalidOrExpired
	}

	if err := r.CheckBranch(token, admin); err != nil {
		return nil, err
	}

	if err := r.checkReady(o, token); err != nil {
		return nil, err
	}

	if err := o.Apply(order.PickedUp, admin, now); err != nil {
		return nil, err
	}

	if err := token.Redeem(now); err != nil {
		return nil, err
	}

	return pickup.NewConfirmation(o.ID(), token.BranchID(), admin.ID(), now)
}

// CheckBranch reports whether admin may hand over token at their branch. Callers use it
// to reject a scan at the wrong branch before loading the order.
func (r PickupRedeemer) CheckBranch(token *pickup.Token, admin actor.Actor) error {
	branchID, ok := admin.BranchID()
	if !ok {
		return order.NewUnauthorizedError(admin, order.PickedUp, "not a branch admin")
	}
	if !branchID.IsEqual(token.BranchID()) {
		return pickup.NewBranchMismatchError(token.BranchID().String(), branchID.String())
	}
	return nil
}

func (r PickupRedeemer) checkReady(o *order.Order, token *pickup.Token) error {
	if o.Status() == order.PickedUp || token.ConsumeReason() == pickup.Redeemed {
		return order.ErrAlreadyPickedUp
	}
	if o.Status() != order.ReadyForPickup {
		return order.NewInvalidTransitionError(o.Status(), order.PickedUp)
	}
	if !token.IsLive() {
		return pickup.ErrTokenInvalidOrExpired
	}
	return nil
}
