package commands

import (
	"context"

	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/clock"
)

// RemindPendingPickupsCommandHandler emits an order.PickupReminder for every order that
// has been READY_FOR_PICKUP for too long. Each order is reminded once: the reminder is
// recorded on the order in the same transaction that selects it.
type RemindPendingPickupsCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
}

// NewRemindPendingPickupsCommandHandler creates the handler used by the reminder job.
func NewRemindPendingPickupsCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) RemindPendingPickupsCommandHandler {
	return RemindPendingPickupsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
	}
}

// Handle returns the number of reminders handed to the notifier. The notifier is called
// before the commit, so a failed hand-off leaves the orders unmarked for the next run.
func (h RemindPendingPickupsCommandHandler) Handle(ctx context.Context, cmd RemindPendingPickupsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	repo := uow.OrderRepository()
	orders, err := repo.GetReadyForPickupBefore(ctx, now.Add(-cmd.WaitingFor()), cmd.Limit())
	if err != nil {
		return 0, err
	}

	events := make([]order.Event, 0, len(orders))
	for _, o := range orders {
		marked, err := repo.MarkReminded(ctx, o.ID(), now)
		if err != nil {
			return 0, err
		}
		if !marked {
			continue
		}
		events = append(events, order.PickupReminder{
			OrderID:    o.ID(),
			BuyerID:    o.BuyerID(),
			BranchID:   o.BranchID(),
			ReadySince: o.UpdatedAt(),
			OccurredAt: now,
		})
	}

	if len(events) > 0 {
		if err = h.notifier.Notify(ctx, events...); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return len(events), nil
}
