package commands

import (
	"errors"
	"time"

	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

var (
	ErrRemindPendingPickupsCommandIsNotConstructed = errors.New(
		"RemindPendingPickupsCommand must be created via NewRemindPendingPickupsCommand constructor",
	)
)

// RemindPendingPickupsCommand asks to remind buyers whose orders have been waiting at
// the branch for longer than waitingFor. At most limit reminders are sent per run.
type RemindPendingPickupsCommand struct { //nolint:recvcheck //using for validation
	waitingFor time.Duration
	limit      int

	guard guard.ConstructorGuard
}

// NewRemindPendingPickupsCommand creates a reminder run.
func NewRemindPendingPickupsCommand(waitingFor time.Duration, limit int) (RemindPendingPickupsCommand, error) {
	if waitingFor <= 0 {
		return RemindPendingPickupsCommand{}, errs.NewValueIsOutOfRangeError("waiting for", waitingFor, "1ns", "unbounded")
	}
	if limit <= 0 {
		return RemindPendingPickupsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return RemindPendingPickupsCommand{
		waitingFor: waitingFor,
		limit:      limit,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RemindPendingPickupsCommand) Validate() error {
	return c.guard.Validate(ErrRemindPendingPickupsCommandIsNotConstructed)
}

func (c RemindPendingPickupsCommand) WaitingFor() time.Duration { return c.waitingFor }
func (c RemindPendingPickupsCommand) Limit() int                { return c.limit }
