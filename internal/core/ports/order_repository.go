// Package ports defines the contracts between the pickup domain and infrastructure:
// repositories bound to a unit of work, the product catalog, the pickup token signer and
// the notification dispatcher.
package ports

import (
	"context"
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate. The order must be valid and not already exist.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order's current status with a compare-and-set against the status
	// it was loaded with (order.PersistedStatus). When another transaction changed the
	// row first, no row matches and an *order.InvalidTransitionError is returned.
	//
	// Example:
	//   if err := o.Apply(order.Preparing, seller, now); err != nil {
	//       return err
	//   }
	//   if err := repo.Update(ctx, o); err != nil {
	//       return err // lost the race, nothing was written
	//   }
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns *errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetReadyForPickupBefore returns orders that have been READY_FOR_PICKUP since before
	// the given instant and have not been reminded yet, oldest first, at most limit of them.
	GetReadyForPickupBefore(ctx context.Context, before time.Time, limit int) ([]*order.Order, error)

	// MarkReminded records that the buyer of a READY_FOR_PICKUP order was reminded. It
	// returns false, without error, when the order was reminded already or is no longer
	// waiting, so each order is reminded at most once.
	MarkReminded(ctx context.Context, id kernel.UUID, at time.Time) (bool, error)
}
