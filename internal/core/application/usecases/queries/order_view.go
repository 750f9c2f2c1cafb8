// Package queries contains read-only operations. Handlers read straight from the
// database with SQL and return flat views; they never load aggregates or open a unit
// of work.
package queries

import (
	"time"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderView is the read model of an order. PickupCode is set once the order is picked up.
type OrderView struct {
	ID         kernel.UUID
	BuyerID    kernel.UUID
	SellerID   kernel.UUID
	ProductID  kernel.UUID
	BranchID   kernel.UUID
	Quantity   int
	Total      kernel.Money
	Notes      string
	Status     order.Status
	PickupCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsVisibleTo reports whether a is a party to the order: its buyer, its seller (directly
// or through a delegate), or an admin of its branch.
func (v OrderView) IsVisibleTo(a actor.Actor) bool {
	switch a.Role() {
	case actor.RoleBuyer:
		return v.BuyerID.IsEqual(a.ID())
	case actor.RoleSeller, actor.RoleSellerDelegate:
		return v.SellerID.IsEqual(a.PrincipalID())
	case actor.RoleBranchAdmin:
		branchID, ok := a.BranchID()
		return ok && v.BranchID.IsEqual(branchID)
	case actor.RoleUnknown:
	}
	return false
}

const orderViewColumns = `
	o.id,
	o.buyer_id,
	o.seller_id,
	o.product_id,
	o.branch_id,
	o.quantity,
	o.total_amount,
	o.notes,
	o.status,
	COALESCE(c.code, ''),
	o.created_at,
	o.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrderView(row rowScanner) (OrderView, error) {
	var (
		v                                          OrderView
		id, buyerID, sellerID, productID, branchID uuid.UUID
		total                                      decimal.Decimal
		status                                     int
	)

	if err := row.Scan(
		&id, &buyerID, &sellerID, &productID, &branchID,
		&v.Quantity, &total, &v.Notes, &status, &v.PickupCode,
		&v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return OrderView{}, err
	}

	var err error
	if v.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return OrderView{}, err
	}
	if v.BuyerID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
		return OrderView{}, err
	}
	if v.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
		return OrderView{}, err
	}
	if v.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
		return OrderView{}, err
	}
	if v.BranchID, err = kernel.UUIDFromBytes(branchID[:]); err != nil {
		return OrderView{}, err
	}
	if v.Total, err = kernel.NewMoney(total); err != nil {
		return OrderView{}, err
	}

	v.Status = order.Status(status)
	if err = v.Status.Validate(); err != nil {
		return OrderView{}, err
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return v, nil
}
