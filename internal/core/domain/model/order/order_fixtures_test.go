package order_test

import (
	"testing"
	"time"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type parties struct {
	buyer    actor.Actor
	seller   actor.Actor
	delegate actor.Actor
	admin    actor.Actor
	stranger actor.Actor
}

func newTestOrder(t *testing.T) (*order.Order, parties) {
	t.Helper()

	buyerID := kernel.NewUUID()
	sellerID := kernel.NewUUID()
	branchID := kernel.NewUUID()

	total, err := kernel.MoneyFromString("25.00")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), buyerID, sellerID, kernel.NewUUID(), branchID, 2, total, "", testNow)
	require.NoError(t, err)

	buyer, err := actor.NewBuyer(buyerID)
	require.NoError(t, err)
	seller, err := actor.NewSeller(sellerID)
	require.NoError(t, err)
	delegate, err := actor.NewSellerDelegate(kernel.NewUUID(), sellerID)
	require.NoError(t, err)
	admin, err := actor.NewBranchAdmin(kernel.NewUUID(), branchID)
	require.NoError(t, err)
	stranger, err := actor.NewSeller(kernel.NewUUID())
	require.NoError(t, err)

	return o, parties{buyer: buyer, seller: seller, delegate: delegate, admin: admin, stranger: stranger}
}

// advanceTo walks o along the happy path until it reaches target.
func advanceTo(t *testing.T, o *order.Order, p parties, target order.Status) {
	t.Helper()

	path := []order.Status{order.PaymentConfirmed, order.Preparing, order.ReadyForPickup, order.PickedUp}
	for _, next := range path {
		if o.Status() == target {
			return
		}
		by := p.seller
		if next == order.PickedUp {
			by = p.admin
		}
		require.NoError(t, o.Apply(next, by, testNow))
	}
	require.Equal(t, target, o.Status())
}
