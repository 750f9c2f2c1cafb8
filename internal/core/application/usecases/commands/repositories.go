// Package commands contains business operations that modify order and pickup state.
// Every handler follows the same pattern: validate the command, open its own unit of
// work, read current state inside the transaction, apply domain rules, persist with
// conditional writes and commit.
package commands

import (
	"context"

	"pickup/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// PickupTokenRepoFactory provides access to the pickup token repository within a transaction.
	PickupTokenRepoFactory interface {
		PickupTokenRepository() ports.PickupTokenRepository
	}

	// PickupConfirmationRepoFactory provides access to the confirmation repository within a transaction.
	PickupConfirmationRepoFactory interface {
		PickupConfirmationRepository() ports.PickupConfirmationRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PickupUoW manages transactions that touch an order together with its pickup token
	// and confirmation.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, id)
	//   // ... apply the transition, issue or consume the token
	//
	//   err = uow.Commit(ctx)
	PickupUoW interface {
		TxManager
		OrderRepoFactory
		PickupTokenRepoFactory
		PickupConfirmationRepoFactory
	}

	// PickupUoWFactory creates new pickup unit of work instances.
	PickupUoWFactory interface {
		Create() PickupUoW
	}
)
