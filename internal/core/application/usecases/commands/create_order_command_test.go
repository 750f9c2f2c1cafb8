package commands_test

import (
	"testing"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id, productID, branchID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	buyer, err := actor.NewBuyer(kernel.NewUUID())
	require.NoError(t, err)

	cmd, err := commands.NewCreateOrderCommand(id, buyer, productID, branchID, 2, "blue one")

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, buyer, cmd.Buyer())
	assert.Equal(t, productID, cmd.ProductID())
	assert.Equal(t, branchID, cmd.BranchID())
	assert.Equal(t, 2, cmd.Quantity())
	assert.Equal(t, "blue one", cmd.Notes())
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	buyer, err := actor.NewBuyer(kernel.NewUUID())
	require.NoError(t, err)

	_, err = commands.NewCreateOrderCommand(kernel.UUID{}, buyer, kernel.NewUUID(), kernel.NewUUID(), 1, "")

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_MissingBuyer(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), actor.Actor{}, kernel.NewUUID(), kernel.NewUUID(), 1, "")

	require.ErrorIs(t, err, actor.ErrActorIsNotConstructed)
}

func TestCreateOrderCommand_NotConstructedViaConstructor(t *testing.T) {
	cmd := commands.CreateOrderCommand{}
	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
