package order

import (
	"time"

	"pickup/internal/core/domain/model/kernel"
)

// Event is a fact about an order handed to the notification dispatcher after commit.
type Event interface {
	// EventName identifies the event type, e.g. "order.status_changed".
	EventName() string
	// AggregateID is the order the event belongs to.
	AggregateID() kernel.UUID
}

// StatusChanged is recorded by Order.Apply for every committed move.
type StatusChanged struct {
	OrderID    kernel.UUID
	BuyerID    kernel.UUID
	SellerID   kernel.UUID
	BranchID   kernel.UUID
	From       Status
	To         Status
	ActorID    kernel.UUID
	OccurredAt time.Time
}

func (e StatusChanged) EventName() string {
	return "order.status_changed"
}

func (e StatusChanged) AggregateID() kernel.UUID {
	return e.OrderID
}

// PickupReminder nudges a buyer whose order has been waiting at the branch since ReadySince.
type PickupReminder struct {
	OrderID    kernel.UUID
	BuyerID    kernel.UUID
	BranchID   kernel.UUID
	ReadySince time.Time
	OccurredAt time.Time
}

func (e PickupReminder) EventName() string {
	return "order.pickup_reminder"
}

func (e PickupReminder) AggregateID() kernel.UUID {
	return e.OrderID
}
