package pickup

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenAlreadyIssued is returned when issuing for an order that still holds a live token.
	ErrTokenAlreadyIssued = errors.New("pickup token already issued")

	// ErrTokenInvalidOrExpired covers forged, malformed, replaced, revoked and expired tokens.
	ErrTokenInvalidOrExpired = errors.New("pickup token invalid or expired")

	// ErrTokenAlreadyConsumed is returned for a token that was already redeemed.
	ErrTokenAlreadyConsumed = errors.New("pickup token already consumed")

	// ErrBranchMismatch is returned when the scanning admin is not assigned to the token's branch.
	ErrBranchMismatch = errors.New("pickup branch mismatch")

	// ErrTokenIsNotConstructed is returned when a Token was not created by NewToken or RestoreToken.
	ErrTokenIsNotConstructed = errors.New("Token must be created via NewToken or RestoreToken")

	// ErrConfirmationIsNotConstructed is returned when a Confirmation was not created by NewConfirmation.
	ErrConfirmationIsNotConstructed = errors.New("Confirmation must be created via NewConfirmation or RestoreConfirmation")
)

// BranchMismatchError carries the branch the token is bound to and the branch of the admin
// who scanned it.
type BranchMismatchError struct {
	TokenBranch   string
	ScannerBranch string
}

// NewBranchMismatchError creates a BranchMismatchError.
func NewBranchMismatchError(tokenBranch, scannerBranch string) *BranchMismatchError {
	return &BranchMismatchError{TokenBranch: tokenBranch, ScannerBranch: scannerBranch}
}

func (e *BranchMismatchError) Error() string {
	return fmt.Sprintf("%s: token is for branch %s, scanned at branch %s", ErrBranchMismatch, e.TokenBranch, e.ScannerBranch)
}

func (e *BranchMismatchError) Unwrap() error {
	return ErrBranchMismatch
}
