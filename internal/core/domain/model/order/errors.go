package order

import (
	"errors"
	"fmt"

	"pickup/internal/core/domain/model/actor"
)

var (
	// ErrInvalidTransition is returned when the requested move is not an edge of the
	// transition graph from the order's current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnauthorized is returned when the actor's role or ownership does not allow the move.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyPickedUp is the more specific form of ErrInvalidTransition reported when a
	// redemption races with, or follows, a successful one.
	ErrAlreadyPickedUp = errors.New("order already picked up")

	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// InvalidTransitionError describes a rejected From -> To move.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// UnauthorizedError describes an actor that may not move an order into To.
type UnauthorizedError struct {
	Actor  string
	Role   actor.Role
	To     Status
	Reason string
}

// NewUnauthorizedError creates an UnauthorizedError for a.
func NewUnauthorizedError(a actor.Actor, to Status, reason string) *UnauthorizedError {
	return &UnauthorizedError{
		Actor:  a.ID().String(),
		Role:   a.Role(),
		To:     to,
		Reason: reason,
	}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: %s %s may not move order to %s (%s)", ErrUnauthorized, e.Role, e.Actor, e.To, e.Reason)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}
