// Package notify decouples event delivery from request handling. Async hands events to a
// background goroutine so a slow or failing sink never delays or fails a committed
// change; Log and Fanout are sinks it can drive.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"
)

// DefaultTimeout bounds a single background delivery.
const DefaultTimeout = 10 * time.Second

// Async delivers events to next in the background. Notify always returns nil; delivery
// failures are logged.
type Async struct {
	next    ports.Notifier
	timeout time.Duration
	logger  *slog.Logger

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewAsync wraps next. A non-positive timeout selects DefaultTimeout.
func NewAsync(next ports.Notifier, timeout time.Duration, logger *slog.Logger) *Async {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Async{
		next:    next,
		timeout: timeout,
		logger:  logger.With("component", "async_notifier"),
	}
}

// Notify schedules delivery and returns immediately. The request context only
// contributes its values; cancelling it does not abort delivery.
func (a *Async) Notify(ctx context.Context, events ...order.Event) error {
	if len(events) == 0 {
		return nil
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.logger.WarnContext(ctx, "notifier closed, dropping events", "events", len(events))
		return nil
	}

	batch := append([]order.Event(nil), events...)
	deliveryCtx := context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(deliveryCtx, a.timeout)
		defer cancel()

		if err := a.next.Notify(ctx, batch...); err != nil {
			a.logger.ErrorContext(ctx, "event delivery failed",
				"events", len(batch),
				"first_event", batch[0].EventName(),
				"order_id", batch[0].AggregateID().String(),
				"error", err,
			)
		}
	}()
	return nil
}

// Close stops accepting events and waits for in-flight deliveries or ctx, whichever
// comes first.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Log writes every event as a structured log line. It is the sink used when no broker
// is configured.
type Log struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLog returns a Log writing at level; a nil logger falls back to slog.Default.
func NewLog(logger *slog.Logger, level slog.Level) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger.With("component", "event_log"), level: level}
}

// Notify logs one line per event and never fails.
func (l *Log) Notify(ctx context.Context, events ...order.Event) error {
	for _, event := range events {
		attrs := []any{
			"event", event.EventName(),
			"order_id", event.AggregateID().String(),
		}
		switch e := event.(type) {
		case order.StatusChanged:
			attrs = append(attrs, "from", e.From.String(), "to", e.To.String(), "actor_id", e.ActorID.String())
		case order.PickupReminder:
			attrs = append(attrs, "buyer_id", e.BuyerID.String(), "ready_since", e.ReadySince)
		}
		l.logger.Log(ctx, l.level, "order event", attrs...)
	}
	return nil
}

// Fanout delivers to every sink and joins their errors.
type Fanout []ports.Notifier

// Notify hands events to each sink in order, even after one of them fails.
func (f Fanout) Notify(ctx context.Context, events ...order.Event) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Notify(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
