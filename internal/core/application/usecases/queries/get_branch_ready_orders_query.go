package queries

import (
	"errors"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/pkg/guard"
)

var (
	ErrGetBranchReadyOrdersQueryIsNotConstructed = errors.New(
		"GetBranchReadyOrdersQuery must be created via NewGetBranchReadyOrdersQuery constructor",
	)
)

// GetBranchReadyOrdersQuery lists the orders waiting for pickup at a branch. Only admins
// assigned to that branch may run it.
type GetBranchReadyOrdersQuery struct {
	branchID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetBranchReadyOrdersQuery creates the query for branchID on behalf of admin.
func NewGetBranchReadyOrdersQuery(branchID kernel.UUID, admin actor.Actor) (GetBranchReadyOrdersQuery, error) {
	if err := errors.Join(branchID.Validate(), admin.Validate()); err != nil {
		return GetBranchReadyOrdersQuery{}, err
	}

	adminBranch, ok := admin.BranchID()
	if !ok || !adminBranch.IsEqual(branchID) {
		return GetBranchReadyOrdersQuery{}, order.NewUnauthorizedError(admin, order.PickedUp, "not assigned to branch")
	}

	return GetBranchReadyOrdersQuery{branchID: branchID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetBranchReadyOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetBranchReadyOrdersQueryIsNotConstructed)
}

// BranchID returns the branch to list.
func (q GetBranchReadyOrdersQuery) BranchID() kernel.UUID {
	return q.branchID
}
