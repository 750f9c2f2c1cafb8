package order

import (
	"fmt"
	"slices"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// Status is persisted as its integer value and exposed on the wire as its upper-case
// name. All knowledge about which moves are legal, and who may request them, lives in
// transitionTable below; nothing else in the code base compares statuses to decide
// legality.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a freshly placed order.
	Pending

	// PaymentConfirmed means the seller attested that the buyer paid.
	PaymentConfirmed

	// Preparing means the seller is getting the product ready for the branch.
	Preparing

	// ReadyForPickup means the product waits at the branch and a pickup token is live.
	ReadyForPickup

	// PickedUp is terminal: a branch admin redeemed the pickup token.
	PickedUp

	// Cancelled is terminal: the buyer or seller withdrew the order.
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:          "UNKNOWN",
	Pending:          "PENDING",
	PaymentConfirmed: "PAYMENT_CONFIRMED",
	Preparing:        "PREPARING",
	ReadyForPickup:   "READY_FOR_PICKUP",
	PickedUp:         "PICKED_UP",
	Cancelled:        "CANCELLED",
}

// transitionRule describes one target status: the statuses it may be entered from and
// the roles allowed to request it.
type transitionRule struct {
	from  []Status
	roles []actor.Role
}

var (
	sellerRoles = []actor.Role{actor.RoleSeller, actor.RoleSellerDelegate}
	partyRoles  = []actor.Role{actor.RoleBuyer, actor.RoleSeller, actor.RoleSellerDelegate}
)

// transitionTable is the only authority on legal moves, keyed by target status.
//
//nolint:gochecknoglobals // immutable lookup table
var transitionTable = map[Status]transitionRule{
	PaymentConfirmed: {from: []Status{Pending}, roles: sellerRoles},
	Preparing:        {from: []Status{PaymentConfirmed}, roles: sellerRoles},
	ReadyForPickup:   {from: []Status{Preparing}, roles: sellerRoles},
	PickedUp:         {from: []Status{ReadyForPickup}, roles: []actor.Role{actor.RoleBranchAdmin}},
	Cancelled: {
		from:  []Status{Pending, PaymentConfirmed, Preparing, ReadyForPickup},
		roles: partyRoles,
	},
}

// ParseStatus maps an upper-case wire name ("READY_FOR_PICKUP") to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status is one of the defined lifecycle states.
// Unknown (0) and out-of-range values read from storage or the wire are rejected.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-case wire name, or "UNKNOWN" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == PickedUp || s == Cancelled
}

// CanTransitionTo checks the edge s -> to against the transition table without
// looking at who asks. Returns an *InvalidTransitionError when the edge does not exist,
// including the self-edge produced by repeating a request.
func (s Status) CanTransitionTo(to Status) error {
	rule, ok := transitionTable[to]
	if !ok || !slices.Contains(rule.from, s) {
		return NewInvalidTransitionError(s, to)
	}
	return nil
}

// PermittedRoles returns the roles allowed to request a move into to.
// The result is nil for statuses that can never be entered by a transition
// (Unknown and Pending).
func (s Status) PermittedRoles() []actor.Role {
	rule, ok := transitionTable[s]
	if !ok {
		return nil
	}
	return slices.Clone(rule.roles)
}

// Predecessors returns the statuses from which s can be entered.
func (s Status) Predecessors() []Status {
	rule, ok := transitionTable[s]
	if !ok {
		return nil
	}
	return slices.Clone(rule.from)
}
