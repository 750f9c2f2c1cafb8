package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage the transaction lifecycle. Events recorded by
// aggregates written through its repositories are handed to the Notifier after a
// successful Commit.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// PickupTokenRepository returns a PickupTokenRepository bound to the current transaction.
	PickupTokenRepository() PickupTokenRepository

	// PickupConfirmationRepository returns a PickupConfirmationRepository bound to the
	// current transaction.
	PickupConfirmationRepository() PickupConfirmationRepository
}
