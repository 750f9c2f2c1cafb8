package queries

import (
	"errors"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery reads one order on behalf of a party to it.
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   actor.Actor

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for orderID as seen by a.
func NewGetOrderQuery(orderID kernel.UUID, a actor.Actor) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), a.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, actor: a, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// Actor returns who is asking.
func (q GetOrderQuery) Actor() actor.Actor { return q.actor }
