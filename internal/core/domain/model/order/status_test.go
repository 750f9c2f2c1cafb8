package order_test

import (
	"fmt"
	"testing"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []order.Status{
	order.Pending,
	order.PaymentConfirmed,
	order.Preparing,
	order.ReadyForPickup,
	order.PickedUp,
	order.Cancelled,
}

func TestStatus_Constants(t *testing.T) {
	assert.Equal(t, 0, int(order.Unknown))
	assert.Equal(t, 1, int(order.Pending))
	assert.Equal(t, 2, int(order.PaymentConfirmed))
	assert.Equal(t, 3, int(order.Preparing))
	assert.Equal(t, 4, int(order.ReadyForPickup))
	assert.Equal(t, 5, int(order.PickedUp))
	assert.Equal(t, 6, int(order.Cancelled))
}

func TestStatus_StringAndParse(t *testing.T) {
	for _, status := range allStatuses {
		t.Run(status.String(), func(t *testing.T) {
			parsed, err := order.ParseStatus(status.String())
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		})
	}

	assert.Equal(t, "UNKNOWN", order.Status(42).String())

	_, err := order.ParseStatus("SHIPPED")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.ParseStatus("UNKNOWN")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Validate(t *testing.T) {
	for _, status := range allStatuses {
		require.NoError(t, status.Validate())
	}

	for _, status := range []order.Status{order.Unknown, order.Status(-1), order.Status(7)} {
		t.Run(fmt.Sprintf("rejects %d", int(status)), func(t *testing.T) {
			err := status.Validate()
			require.Error(t, err)
			assert.IsType(t, &errs.ValueIsInvalidError{}, err)
			assert.Contains(t, err.Error(), "status is invalid")
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, status := range allStatuses {
		expected := status == order.PickedUp || status == order.Cancelled
		assert.Equal(t, expected, status.IsTerminal(), status.String())
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	legal := map[order.Status][]order.Status{
		order.Pending:          {order.PaymentConfirmed, order.Cancelled},
		order.PaymentConfirmed: {order.Preparing, order.Cancelled},
		order.Preparing:        {order.ReadyForPickup, order.Cancelled},
		order.ReadyForPickup:   {order.PickedUp, order.Cancelled},
		order.PickedUp:         {},
		order.Cancelled:        {},
	}

	for _, from := range allStatuses {
		for _, to := range append([]order.Status{order.Unknown}, allStatuses...) {
			t.Run(fmt.Sprintf("%s->%s", from, to), func(t *testing.T) {
				err := from.CanTransitionTo(to)
				if contains(legal[from], to) {
					require.NoError(t, err)
					return
				}

				require.ErrorIs(t, err, order.ErrInvalidTransition)
				var transitionErr *order.InvalidTransitionError
				require.ErrorAs(t, err, &transitionErr)
				assert.Equal(t, from, transitionErr.From)
				assert.Equal(t, to, transitionErr.To)
			})
		}
	}
}

func TestStatus_NoSelfEdges(t *testing.T) {
	for _, status := range allStatuses {
		require.ErrorIs(t, status.CanTransitionTo(status), order.ErrInvalidTransition, status.String())
	}
}

func TestStatus_PermittedRoles(t *testing.T) {
	seller := []actor.Role{actor.RoleSeller, actor.RoleSellerDelegate}

	assert.ElementsMatch(t, seller, order.PaymentConfirmed.PermittedRoles())
	assert.ElementsMatch(t, seller, order.Preparing.PermittedRoles())
	assert.ElementsMatch(t, seller, order.ReadyForPickup.PermittedRoles())
	assert.ElementsMatch(t, []actor.Role{actor.RoleBranchAdmin}, order.PickedUp.PermittedRoles())
	assert.ElementsMatch(t,
		[]actor.Role{actor.RoleBuyer, actor.RoleSeller, actor.RoleSellerDelegate},
		order.Cancelled.PermittedRoles())
	assert.Nil(t, order.Pending.PermittedRoles())
	assert.Nil(t, order.Unknown.PermittedRoles())
}

// TestStatus_EveryStatusReachableFromPending checks that the table has no orphan states:
// walking predecessors from any status always ends at PENDING.
func TestStatus_EveryStatusReachableFromPending(t *testing.T) {
	for _, status := range allStatuses {
		visited := map[order.Status]bool{}
		frontier := []order.Status{status}
		reached := false
		for len(frontier) > 0 {
			current := frontier[0]
			frontier = frontier[1:]
			if current == order.Pending {
				reached = true
				break
			}
			if visited[current] {
				continue
			}
			visited[current] = true
			frontier = append(frontier, current.Predecessors()...)
		}
		assert.True(t, reached, "%s has no path from PENDING", status)
	}
}

func contains(list []order.Status, s order.Status) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
