package queries

import (
	"errors"
	"time"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/pkg/guard"
)

var (
	ErrGetPickupTokenQueryIsNotConstructed = errors.New(
		"GetPickupTokenQuery must be created via NewGetPickupTokenQuery constructor",
	)
)

// GetPickupTokenQuery lets the buyer fetch the live pickup token of their order again,
// for instance to show it as a QR code at the branch.
type GetPickupTokenQuery struct {
	orderID kernel.UUID
	buyer   actor.Actor

	guard guard.ConstructorGuard
}

// NewGetPickupTokenQuery creates the query. Only buyers may fetch pickup tokens.
func NewGetPickupTokenQuery(orderID kernel.UUID, buyer actor.Actor) (GetPickupTokenQuery, error) {
	if err := errors.Join(orderID.Validate(), buyer.Validate()); err != nil {
		return GetPickupTokenQuery{}, err
	}
	if buyer.Role() != actor.RoleBuyer {
		return GetPickupTokenQuery{}, order.NewUnauthorizedError(buyer, order.PickedUp, "only the buyer holds the pickup token")
	}
	return GetPickupTokenQuery{orderID: orderID, buyer: buyer, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetPickupTokenQuery) Validate() error {
	return q.guard.Validate(ErrGetPickupTokenQueryIsNotConstructed)
}

func (q GetPickupTokenQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetPickupTokenQuery) Buyer() actor.Actor   { return q.buyer }

// GetPickupTokenQueryResponse carries the rendered token.
type GetPickupTokenQueryResponse struct {
	OrderID   kernel.UUID
	BranchID  kernel.UUID
	Token     string
	IssuedAt  time.Time
	ExpiresAt *time.Time
}
