package order

import (
	"slices"

	"pickup/internal/core/domain/model/actor"
)

// TransitionValidator decides whether an actor may move an order into a target status.
// It is a pure function of (order, target, actor): it neither reads storage nor mutates
// the order, so the caller must pass the order as read inside its current transaction.
//
// Guards, in order:
//   - the actor's role is one of the roles the transition table permits for the target
//   - ownership: sellers and delegates must act for the order's seller, buyers must be the
//     order's buyer, branch admins must be assigned to the order's branch
//   - the target is an edge out of the order's current status
//
// Authorization is checked first so that callers without rights learn nothing about
// the order's current state.
type TransitionValidator struct{}

// NewTransitionValidator creates a TransitionValidator.
func NewTransitionValidator() TransitionValidator {
	return TransitionValidator{}
}

// Validate returns the status the order will have after the move.
//
// Returns:
//   - (to, nil) when the move is allowed
//   - *UnauthorizedError when role or ownership guards fail
//   - *InvalidTransitionError when to is not reachable from the current status,
//     including a repeat of the move that produced the current status
//
// Example:
//
//	next, err := order.NewTransitionValidator().Validate(o, order.PaymentConfirmed, seller)
//	if errors.Is(err, order.ErrInvalidTransition) {
//	    // already confirmed, or cancelled meanwhile
//	}
func (v TransitionValidator) Validate(o *Order, to Status, by actor.Actor) (Status, error) {
	if err := o.Validate(); err != nil {
		return Unknown, err
	}
	if err := by.Validate(); err != nil {
		return Unknown, err
	}

	if !slices.Contains(to.PermittedRoles(), by.Role()) {
		return Unknown, NewUnauthorizedError(by, to, "role not permitted")
	}
	if !v.owns(o, by) {
		return Unknown, NewUnauthorizedError(by, to, "not a party to the order")
	}

	if err := o.Status().CanTransitionTo(to); err != nil {
		return Unknown, err
	}
	return to, nil
}

func (v TransitionValidator) owns(o *Order, by actor.Actor) bool {
	switch by.Role() {
	case actor.RoleBuyer:
		return o.BuyerID().IsEqual(by.ID())
	case actor.RoleSeller, actor.RoleSellerDelegate:
		return o.SellerID().IsEqual(by.PrincipalID())
	case actor.RoleBranchAdmin:
		branchID, ok := by.BranchID()
		return ok && o.BranchID().IsEqual(branchID)
	case actor.RoleUnknown:
		return false
	default:
		return false
	}
}
