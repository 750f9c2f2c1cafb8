package ports

import (
	"context"

	"pickup/internal/core/domain/model/order"
)

// Notifier hands committed order events to the external notification dispatcher.
// Implementations must not block the caller for long; delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, events ...order.Event) error
}
