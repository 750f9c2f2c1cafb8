package order

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
)

const (
	// MaxQuantity bounds the number of units a single order may reserve.
	MaxQuantity = 1000
	// MaxNotesLength bounds the free-text notes in runes.
	MaxNotesLength = 500
)

// Order is the aggregate root of a purchase that is collected in person at a branch.
//
// Order follows these invariants:
//   - identifiers of order, buyer, seller, product and branch are valid UUIDs
//   - quantity is within [1, MaxQuantity], total is a valid non-negative Money
//   - status only changes through Apply, which consults TransitionValidator
//   - the status the order was loaded with is kept so the store can write with a
//     compare-and-set instead of a blind overwrite
type Order struct {
	id        kernel.UUID
	buyerID   kernel.UUID
	sellerID  kernel.UUID
	productID kernel.UUID
	branchID  kernel.UUID
	quantity  int
	total     kernel.Money
	notes     string

	status Status
	// persistedStatus is the status currently stored; Unknown for a new order.
	persistedStatus Status

	createdAt time.Time
	updatedAt time.Time

	events []Event

	isConstructed bool
}

// NewOrder places a new order in Pending status.
//
// Parameters:
//   - id: identifier of the new order
//   - buyerID, sellerID, productID, branchID: parties and pickup location
//   - quantity: units ordered, within [1, MaxQuantity]
//   - total: amount due for all units
//   - notes: optional buyer notes, at most MaxNotesLength runes
//   - now: creation timestamp
//
// Returns a validation error (joined over all invalid arguments) when any
// parameter is invalid.
func NewOrder(
	id, buyerID, sellerID, productID, branchID kernel.UUID,
	quantity int,
	total kernel.Money,
	notes string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIdentity(id, buyerID, sellerID, productID, branchID),
		o.setQuantity(quantity),
		o.setTotal(total),
		o.setNotes(notes),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order read from storage. The given status becomes both the
// current and the persisted status.
func RestoreOrder(
	id, buyerID, sellerID, productID, branchID kernel.UUID,
	quantity int,
	total kernel.Money,
	notes string,
	status Status,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	o, err := NewOrder(id, buyerID, sellerID, productID, branchID, quantity, total, notes, createdAt)
	if err != nil {
		return nil, err
	}

	o.status = status
	o.persistedStatus = status
	o.updatedAt = updatedAt
	return o, nil
}

// Validate ensures the Order instance was created by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Apply moves the order into to on behalf of by, after TransitionValidator approves.
// On success the status and update timestamp change and a StatusChanged event is
// recorded; on failure the order is untouched.
//
// Example:
//
//	if err := o.Apply(order.Preparing, seller, clock.Now()); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
func (o *Order) Apply(to Status, by actor.Actor, at time.Time) error {
	next, err := NewTransitionValidator().Validate(o, to, by)
	if err != nil {
		return err
	}

	from := o.status
	o.status = next
	o.updatedAt = at
	o.events = append(o.events, StatusChanged{
		OrderID:    o.id,
		BuyerID:    o.buyerID,
		SellerID:   o.sellerID,
		BranchID:   o.branchID,
		From:       from,
		To:         next,
		ActorID:    by.ID(),
		OccurredAt: at,
	})
	return nil
}

// MarkPersisted records that the current status has been written. Stores call it after a
// successful insert or conditional update so that a later write in the same unit of
// work compares against the right value.
func (o *Order) MarkPersisted() {
	o.persistedStatus = o.status
}

// PullEvents returns and clears the events recorded since the last call.
func (o *Order) PullEvents() []Event {
	events := o.events
	o.events = nil
	return events
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// BuyerID returns the identity of the buyer who placed the order.
func (o *Order) BuyerID() kernel.UUID { return o.buyerID }

// SellerID returns the identity of the seller who fulfils the order.
func (o *Order) SellerID() kernel.UUID { return o.sellerID }

// ProductID returns the ordered catalog product.
func (o *Order) ProductID() kernel.UUID { return o.productID }

// BranchID returns the branch where the order is collected.
func (o *Order) BranchID() kernel.UUID { return o.branchID }

// Quantity returns the number of units ordered.
func (o *Order) Quantity() int { return o.quantity }

// Total returns the amount due.
func (o *Order) Total() kernel.Money { return o.total }

// Notes returns the buyer's free-text notes (possibly empty).
func (o *Order) Notes() string { return o.notes }

// Status returns the current, possibly not yet persisted, status.
func (o *Order) Status() Status { return o.status }

// PersistedStatus returns the status last read from or written to storage, or Unknown
// for an order that was never stored.
func (o *Order) PersistedStatus() Status { return o.persistedStatus }

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns when the order last changed status.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

func (o *Order) setIdentity(id, buyerID, sellerID, productID, branchID kernel.UUID) error {
	if err := errors.Join(
		requireID("order id", id),
		requireID("buyer id", buyerID),
		requireID("seller id", sellerID),
		requireID("product id", productID),
		requireID("branch id", branchID),
	); err != nil {
		return err
	}

	o.id = id
	o.buyerID = buyerID
	o.sellerID = sellerID
	o.productID = productID
	o.branchID = branchID
	return nil
}

func (o *Order) setQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxQuantity)
	}
	o.quantity = quantity
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("total", err)
	}
	o.total = total
	return nil
}

func (o *Order) setNotes(notes string) error {
	if n := utf8.RuneCountInString(notes); n > MaxNotesLength {
		return errs.NewValueIsOutOfRangeErrorWithCause(
			"notes length", n, 0, MaxNotesLength,
			fmt.Errorf("notes are %d characters long", n),
		)
	}
	o.notes = notes
	return nil
}

func requireID(name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}
