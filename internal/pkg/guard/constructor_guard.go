// Package guard detects value objects, commands and queries that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types whose zero value is not usable. Only
// NewConstructorGuard yields a guard that validates, so a struct literal built outside
// its constructor is caught on first use:
//
//	type RedeemPickupCommand struct {
//	    token string
//	    guard guard.ConstructorGuard
//	}
//
//	func (c RedeemPickupCommand) Validate() error {
//	    return c.guard.Validate(ErrRedeemPickupCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marking its owner as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil) if the
// guard is a zero value, nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
