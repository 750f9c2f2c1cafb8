// Package actor models the authenticated party on whose behalf an operation runs.
// Identity is issued elsewhere; the pickup service receives it explicitly with every
// command so that authorization is a function of (actor, order, transition).
package actor

import (
	"errors"
	"fmt"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

// ErrActorIsNotConstructed is returned when a zero-value Actor is validated.
var ErrActorIsNotConstructed = errors.New("Actor must be created via one of the actor constructors")

// Role is the capacity in which an actor calls the service.
type Role int

const (
	// RoleUnknown is the zero value and never authorizes anything.
	RoleUnknown Role = iota
	// RoleBuyer places, fetches and cancels its own orders.
	RoleBuyer
	// RoleSeller advances its own orders through payment and preparation.
	RoleSeller
	// RoleSellerDelegate acts for a seller (the principal) with the seller's permissions.
	RoleSellerDelegate
	// RoleBranchAdmin confirms handovers at the branch it is assigned to.
	RoleBranchAdmin
)

var roleNames = map[Role]string{
	RoleUnknown:        "unknown",
	RoleBuyer:          "buyer",
	RoleSeller:         "seller",
	RoleSellerDelegate: "seller_delegate",
	RoleBranchAdmin:    "branch_admin",
}

// String returns the wire name of the role ("buyer", "seller", ...).
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleUnknown]
}

// ParseRole maps a wire name back to a Role.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if role != RoleUnknown && name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

// Actor is an authenticated caller. PrincipalID is the identity whose ownership rights
// apply: the actor itself, or the represented seller for a delegate. BranchID is only
// set for branch admins.
type Actor struct {
	id          kernel.UUID
	role        Role
	principalID kernel.UUID
	branchID    *kernel.UUID

	guard guard.ConstructorGuard
}

// NewBuyer creates a buyer actor.
func NewBuyer(id kernel.UUID) (Actor, error) {
	return newActor(id, RoleBuyer, id, nil)
}

// NewSeller creates a seller actor.
func NewSeller(id kernel.UUID) (Actor, error) {
	return newActor(id, RoleSeller, id, nil)
}

// NewSellerDelegate creates an actor acting on behalf of sellerID.
func NewSellerDelegate(id, sellerID kernel.UUID) (Actor, error) {
	return newActor(id, RoleSellerDelegate, sellerID, nil)
}

// NewBranchAdmin creates an administrator assigned to branchID.
func NewBranchAdmin(id, branchID kernel.UUID) (Actor, error) {
	if err := branchID.Validate(); err != nil {
		return Actor{}, errs.NewValueIsRequiredErrorWithCause("branch id", err)
	}
	return newActor(id, RoleBranchAdmin, id, &branchID)
}

func newActor(id kernel.UUID, role Role, principalID kernel.UUID, branchID *kernel.UUID) (Actor, error) {
	if err := errors.Join(id.Validate(), principalID.Validate()); err != nil {
		return Actor{}, errs.NewValueIsRequiredErrorWithCause("actor id", err)
	}
	return Actor{
		id:          id,
		role:        role,
		principalID: principalID,
		branchID:    branchID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate returns ErrActorIsNotConstructed for the zero value.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// ID returns the caller's own identity.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// Role returns the caller's role.
func (a Actor) Role() Role {
	return a.role
}

// PrincipalID returns the identity whose ownership rights the actor exercises.
func (a Actor) PrincipalID() kernel.UUID {
	return a.principalID
}

// BranchID returns the admin's branch and true, or false for every other role.
func (a Actor) BranchID() (kernel.UUID, bool) {
	if a.branchID == nil {
		return kernel.UUID{}, false
	}
	return *a.branchID, true
}

// ActsAsSeller reports whether the role carries seller permissions.
func (a Actor) ActsAsSeller() bool {
	return a.role == RoleSeller || a.role == RoleSellerDelegate
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.role, a.id)
}
