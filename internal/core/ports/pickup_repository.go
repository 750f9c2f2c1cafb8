package ports

import (
	"context"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/pickup"
)

// PickupTokenRepository stores at most one token record per order.
type PickupTokenRepository interface {
	// Issue stores a freshly created token. An existing record for the same order is
	// replaced only when it is consumed; a live one makes Issue fail with
	// pickup.ErrTokenAlreadyIssued.
	Issue(ctx context.Context, token *pickup.Token) error

	// Get returns the token record of an order, or *errs.ObjectNotFoundError.
	Get(ctx context.Context, orderID kernel.UUID) (*pickup.Token, error)

	// Consume persists a Redeem or Revoke of token. The write is conditional on the
	// stored record still carrying the same nonce and being live; otherwise nothing is
	// written and pickup.ErrTokenAlreadyConsumed is returned.
	Consume(ctx context.Context, token *pickup.Token) error
}

// PickupConfirmationRepository stores immutable handover confirmations.
type PickupConfirmationRepository interface {
	// Add persists a confirmation. A second confirmation for the same order fails with
	// order.ErrAlreadyPickedUp.
	Add(ctx context.Context, confirmation *pickup.Confirmation) error

	// Get returns the confirmation of an order, or *errs.ObjectNotFoundError.
	Get(ctx context.Context, orderID kernel.UUID) (*pickup.Confirmation, error)
}
