// Package postgres provides the GORM-based implementation of the Unit of Work pattern.
// A unit of work wraps one database transaction, hands out repositories bound to it and
// tracks the order aggregates written through them. After a successful commit the
// domain events recorded by those aggregates are handed to the notifier.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	// ... apply domain rules
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance owns a single transaction and must not be shared
//     between goroutines
//   - Conflicting writes are detected by conditional updates in the repositories, not
//     by locks taken here
package postgres

import (
	"context"
	"log/slog"

	"pickup/internal/adapters/out/postgres/orderrepo"
	"pickup/internal/adapters/out/postgres/pickuprepo"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates that record domain events.
type eventSource interface {
	PullEvents() []order.Event
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool and
// one notifier.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, notifier, logger)
type GormUnitOfWorkFactory struct {
	db       *gorm.DB
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory. A nil notifier disables event publishing.
func NewGormUnitOfWorkFactory(db *gorm.DB, notifier ports.Notifier, logger *slog.Logger) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUnitOfWorkFactory{
		db:       db,
		notifier: notifier,
		logger:   logger.With("component", "unit_of_work"),
	}
}

// Create produces a fresh unit of work with its own transaction state and tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		notifier:          f.notifier,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates changed in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	notifier          ports.Notifier
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again while a transaction is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and then publishes the events of every tracked
// aggregate. Publishing failures are logged and never turn a committed change into an
// error. Returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.discardTracked()
		return err
	}

	uow.publish(ctx)
	return nil
}

// Rollback discards the transaction together with the events of tracked aggregates.
// Returns gorm.ErrInvalidTransaction when no transaction is open, which is the case
// after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.discardTracked()
	return err
}

// OrderRepository returns an order repository bound to the open transaction, or to the
// pool when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// PickupTokenRepository returns a token repository bound to the open transaction.
func (uow *GormUnitOfWork) PickupTokenRepository() ports.PickupTokenRepository {
	return pickuprepo.NewGormTokenRepository(uow.conn())
}

// PickupConfirmationRepository returns a confirmation repository bound to the open transaction.
func (uow *GormUnitOfWork) PickupConfirmationRepository() ports.PickupConfirmationRepository {
	return pickuprepo.NewGormConfirmationRepository(uow.conn())
}

// TrackAggregate registers an aggregate written in this unit of work. Repositories call
// it after a successful insert or update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// pullEvents drains the recorded events of all tracked aggregates in tracking order.
func (uow *GormUnitOfWork) pullEvents() []order.Event {
	var events []order.Event
	for _, tracked := range uow.trackedAggregates {
		if source, ok := tracked.Aggregate.(eventSource); ok {
			events = append(events, source.PullEvents()...)
		}
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return events
}

func (uow *GormUnitOfWork) discardTracked() {
	_ = uow.pullEvents()
}

func (uow *GormUnitOfWork) publish(ctx context.Context) {
	events := uow.pullEvents()
	if len(events) == 0 || uow.notifier == nil {
		return
	}

	if err := uow.notifier.Notify(ctx, events...); err != nil {
		uow.logger.ErrorContext(ctx, "failed to publish domain events",
			"events", len(events),
			"error", err,
		)
	}
}
