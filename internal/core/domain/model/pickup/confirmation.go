package pickup

import (
	"errors"
	"strings"
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
)

// Confirmation is the immutable proof of a handover, identified by its order.
type Confirmation struct {
	orderID    kernel.UUID
	branchID   kernel.UUID
	code       string
	redeemedBy kernel.UUID
	redeemedAt time.Time

	isConstructed bool
}

// NewConfirmation records that adminID handed orderID over at branchID. The pickup code
// shown to the buyer is the last segment of the order id, upper-cased.
func NewConfirmation(orderID, branchID, adminID kernel.UUID, at time.Time) (*Confirmation, error) {
	if err := errors.Join(orderID.Validate(), branchID.Validate(), adminID.Validate()); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("confirmation identity", err)
	}
	return &Confirmation{
		orderID:       orderID,
		branchID:      branchID,
		code:          CodeFor(orderID),
		redeemedBy:    adminID,
		redeemedAt:    at,
		isConstructed: true,
	}, nil
}

// RestoreConfirmation rebuilds a confirmation read from storage.
func RestoreConfirmation(orderID, branchID, adminID kernel.UUID, code string, at time.Time) (*Confirmation, error) {
	c, err := NewConfirmation(orderID, branchID, adminID, at)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, errs.NewValueIsRequiredError("pickup code")
	}
	c.code = code
	return c, nil
}

// CodeFor derives the human-readable pickup code of an order.
func CodeFor(orderID kernel.UUID) string {
	return strings.ToUpper(orderID.LastSegment())
}

// Validate ensures the confirmation was created through a constructor.
func (c *Confirmation) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrConfirmationIsNotConstructed
	}
	return nil
}

func (c *Confirmation) OrderID() kernel.UUID    { return c.orderID }
func (c *Confirmation) BranchID() kernel.UUID   { return c.branchID }
func (c *Confirmation) Code() string            { return c.code }
func (c *Confirmation) RedeemedBy() kernel.UUID { return c.redeemedBy }
func (c *Confirmation) RedeemedAt() time.Time   { return c.redeemedAt }
