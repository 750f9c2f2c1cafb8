package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	postgres_adapter "pickup/internal/adapters/out/postgres"
	"pickup/internal/adapters/out/postgres/pgtest"
	"pickup/internal/adapters/out/tokensigner"
	"pickup/internal/core/application/pickuptoken"
	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/clock"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var now = time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)

// recordingNotifier keeps every published event and optionally fails.
type recordingNotifier struct {
	mu     sync.Mutex
	events []order.Event
	calls  int
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, events ...order.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.events = append(n.events, events...)
	return n.err
}

func (n *recordingNotifier) statusChanges() []order.StatusChanged {
	n.mu.Lock()
	defer n.mu.Unlock()
	var changes []order.StatusChanged
	for _, e := range n.events {
		if changed, ok := e.(order.StatusChanged); ok {
			changes = append(changes, changed)
		}
	}
	return changes
}

type orderUoWFactory struct {
	factory ports.UnitOfWorkFactory
}

func (f orderUoWFactory) Create() commands.OrderUoW {
	return f.factory.Create()
}

type pickupUoWFactory struct {
	factory ports.UnitOfWorkFactory
}

func (f pickupUoWFactory) Create() commands.PickupUoW {
	return f.factory.Create()
}

// UnitOfWorkIntegrationTestSuite exercises transactions, event publishing and the
// pickup protocol end to end against PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	db       *gorm.DB
	notifier *recordingNotifier
	factory  *postgres_adapter.GormUnitOfWorkFactory
	tokens   *pickuptoken.Service
	clock    clock.Clock
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.db = database.DB

	suite.clock = clock.NewFixed(now)
	signer, err := tokensigner.NewHMACSigner([]byte("0123456789abcdef0123456789abcdef"), "pickup", suite.clock)
	suite.Require().NoError(err)
	suite.tokens, err = pickuptoken.NewService(signer, suite.clock, 0)
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())

	suite.notifier = new(recordingNotifier)
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(suite.db, suite.notifier, nil)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Stop(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	first := suite.factory.Create()
	second := suite.factory.Create()

	suite.NotNil(first)
	suite.NotSame(first, second)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPublishesEventsAfterwards() {
	ctx := suite.T().Context()
	o := suite.storeOrder(order.Pending)
	suite.Equal(0, suite.notifier.calls, "inserting an order records no event")

	seller, err := actor.NewSeller(o.SellerID())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Apply(order.PaymentConfirmed, seller, now))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))
	suite.Empty(suite.notifier.statusChanges(), "nothing is published before commit")

	suite.Require().NoError(uow.Commit(ctx))

	changes := suite.notifier.statusChanges()
	suite.Require().Len(changes, 1)
	suite.Equal(o.ID(), changes[0].OrderID)
	suite.Equal(order.Pending, changes[0].From)
	suite.Equal(order.PaymentConfirmed, changes[0].To)
	suite.Equal(seller.ID(), changes[0].ActorID)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsWritesAndEvents() {
	ctx := suite.T().Context()
	o := suite.storeOrder(order.Pending)
	buyer, err := actor.NewBuyer(o.BuyerID())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Apply(order.Cancelled, buyer, now))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.Rollback(ctx))

	stored := suite.reload(o.ID())
	suite.Equal(order.Pending, stored.Status())
	suite.Empty(suite.notifier.events)
	suite.Empty(loaded.PullEvents())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_NotifierFailureDoesNotFailCommit() {
	ctx := suite.T().Context()
	suite.notifier.err = errors.New("broker unavailable")
	o := suite.storeOrder(order.PaymentConfirmed)
	seller, err := actor.NewSeller(o.SellerID())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Apply(order.Preparing, seller, now))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))

	suite.Require().NoError(uow.Commit(ctx))
	suite.Equal(1, suite.notifier.calls)
	suite.Equal(order.Preparing, suite.reload(o.ID()).Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoriesShareTransaction() {
	ctx := suite.T().Context()
	o := suite.storeOrder(order.ReadyForPickup)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	_, _, err := suite.tokens.Issue(ctx, uow.PickupTokenRepository(), o.ID(), o.BranchID())
	suite.Require().NoError(err)

	outside := postgres_adapter.NewGormUnitOfWorkFactory(suite.db, nil, nil).Create()
	_, err = outside.PickupTokenRepository().Get(ctx, o.ID())
	suite.Require().Error(err, "uncommitted token must not be visible to other connections")

	suite.Require().NoError(uow.Commit(ctx))

	token, err := outside.PickupTokenRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(token.IsLive())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := suite.T().Context()
	o := suite.readyOrderWithoutPersistence()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))

	suite.Equal(order.ReadyForPickup, suite.reload(o.ID()).Status())
}

// TestPickupProtocol_ConcurrentRedemption_ExactlyOnce scans the same token from many
// goroutines at once.
func (suite *UnitOfWorkIntegrationTestSuite) TestPickupProtocol_ConcurrentRedemption_ExactlyOnce() {
	ctx := suite.T().Context()
	o := suite.storeOrder(order.Preparing)
	opaque := suite.markReady(o)
	suite.notifier.events = nil

	redeem := commands.NewRedeemPickupCommandHandler(pickupUoWFactory{suite.factory}, suite.tokens, suite.clock)

	const scanners = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []commands.RedeemPickupResult
		lost      int
	)

	for range scanners {
		admin := suite.adminOf(o.BranchID())
		cmd, err := commands.NewRedeemPickupCommand(opaque, admin)
		suite.Require().NoError(err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := redeem.Handle(ctx, cmd)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded = append(succeeded, res)
			case errors.Is(err, order.ErrAlreadyPickedUp):
				lost++
			default:
				suite.Failf("unexpected redemption error", "%v", err)
			}
		}()
	}
	wg.Wait()

	suite.Require().Len(succeeded, 1)
	suite.Equal(scanners-1, lost)
	suite.Equal(order.PickedUp, succeeded[0].Order.Status())
	suite.Equal(pickup.CodeFor(o.ID()), succeeded[0].Confirmation.Code())

	suite.Equal(order.PickedUp, suite.reload(o.ID()).Status())

	var confirmations int64
	suite.Require().NoError(suite.db.Table("pickup_confirmations").Where("order_id = ?", o.ID().Bytes()).Count(&confirmations).Error)
	suite.Equal(int64(1), confirmations)

	token, err := suite.factory.Create().PickupTokenRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(pickup.Redeemed, token.ConsumeReason())

	changes := suite.notifier.statusChanges()
	suite.Require().Len(changes, 1)
	suite.Equal(order.PickedUp, changes[0].To)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPickupProtocol_RedeemTwice_SecondIsAlreadyPickedUp() {
	ctx := suite.T().Context()
	o := suite.storeOrder(order.Preparing)
	opaque := suite.markReady(o)

	redeem := commands.NewRedeemPickupCommandHandler(pickupUoWFactory{suite.factory}, suite.tokens, suite.clock)
	cmd, err := commands.NewRedeemPickupCommand(opaque, suite.adminOf(o.BranchID()))
	suite.Require().NoError(err)

	_, err = redeem.Handle(ctx, cmd)
	suite.Require().NoError(err)

	_, err = redeem.Handle(ctx, cmd)
	suite.Require().ErrorIs(err, order.ErrAlreadyPickedUp)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPickupProtocol_WrongBranch_LeavesTokenLive() {
	ctx := suite.T().Context()
	o := suite.storeOrder(order.Preparing)
	opaque := suite.markReady(o)

	redeem := commands.NewRedeemPickupCommandHandler(pickupUoWFactory{suite.factory}, suite.tokens, suite.clock)
	cmd, err := commands.NewRedeemPickupCommand(opaque, suite.adminOf(kernel.NewUUID()))
	suite.Require().NoError(err)

	_, err = redeem.Handle(ctx, cmd)
	suite.Require().ErrorIs(err, pickup.ErrBranchMismatch)

	token, err := suite.factory.Create().PickupTokenRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(token.IsLive())
	suite.Equal(order.ReadyForPickup, suite.reload(o.ID()).Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPickupProtocol_CancelRevokesToken() {
	ctx := suite.T().Context()
	o := suite.storeOrder(order.Preparing)
	opaque := suite.markReady(o)

	buyer, err := actor.NewBuyer(o.BuyerID())
	suite.Require().NoError(err)
	change := commands.NewChangeOrderStatusCommandHandler(pickupUoWFactory{suite.factory}, suite.tokens, suite.clock)
	cancel, err := commands.NewChangeOrderStatusCommand(o.ID(), order.Cancelled, buyer)
	suite.Require().NoError(err)
	_, err = change.Handle(ctx, cancel)
	suite.Require().NoError(err)

	redeem := commands.NewRedeemPickupCommandHandler(pickupUoWFactory{suite.factory}, suite.tokens, suite.clock)
	cmd, err := commands.NewRedeemPickupCommand(opaque, suite.adminOf(o.BranchID()))
	suite.Require().NoError(err)

	_, err = redeem.Handle(ctx, cmd)
	suite.Require().ErrorIs(err, pickup.ErrTokenInvalidOrExpired)

	token, err := suite.factory.Create().PickupTokenRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(pickup.Revoked, token.ConsumeReason())
	suite.Equal(order.Cancelled, suite.reload(o.ID()).Status())
}

// TestPickupProtocol_CancelRacesRedemption runs a buyer cancel and a branch scan of the
// same order at once, many times over. Both write the order row before the token row, so
// one of them wins and the other gets a typed error, never a database failure.
func (suite *UnitOfWorkIntegrationTestSuite) TestPickupProtocol_CancelRacesRedemption() {
	ctx := suite.T().Context()
	change := commands.NewChangeOrderStatusCommandHandler(pickupUoWFactory{suite.factory}, suite.tokens, suite.clock)
	redeem := commands.NewRedeemPickupCommandHandler(pickupUoWFactory{suite.factory}, suite.tokens, suite.clock)

	const rounds = 20
	for range rounds {
		o := suite.storeOrder(order.Preparing)
		opaque := suite.markReady(o)

		buyer, err := actor.NewBuyer(o.BuyerID())
		suite.Require().NoError(err)
		cancelCmd, err := commands.NewChangeOrderStatusCommand(o.ID(), order.Cancelled, buyer)
		suite.Require().NoError(err)
		redeemCmd, err := commands.NewRedeemPickupCommand(opaque, suite.adminOf(o.BranchID()))
		suite.Require().NoError(err)

		var (
			wg                   sync.WaitGroup
			cancelErr, redeemErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancelErr = change.Handle(ctx, cancelCmd)
		}()
		go func() {
			defer wg.Done()
			_, redeemErr = redeem.Handle(ctx, redeemCmd)
		}()
		wg.Wait()

		token, err := suite.factory.Create().PickupTokenRepository().Get(ctx, o.ID())
		suite.Require().NoError(err)

		switch {
		case cancelErr == nil:
			suite.Require().ErrorIs(redeemErr, pickup.ErrTokenInvalidOrExpired)
			suite.Equal(order.Cancelled, suite.reload(o.ID()).Status())
			suite.Equal(pickup.Revoked, token.ConsumeReason())
		case redeemErr == nil:
			suite.Require().ErrorIs(cancelErr, order.ErrInvalidTransition)
			suite.Equal(order.PickedUp, suite.reload(o.ID()).Status())
			suite.Equal(pickup.Redeemed, token.ConsumeReason())
		default:
			suite.Failf("neither side won", "cancel: %v, redeem: %v", cancelErr, redeemErr)
		}
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPickupProtocol_ConcurrentStatusChanges_OneWins() {
	ctx := suite.T().Context()
	o := suite.storeOrder(order.PaymentConfirmed)
	seller, err := actor.NewSeller(o.SellerID())
	suite.Require().NoError(err)
	buyer, err := actor.NewBuyer(o.BuyerID())
	suite.Require().NoError(err)

	change := commands.NewChangeOrderStatusCommandHandler(pickupUoWFactory{suite.factory}, suite.tokens, suite.clock)
	prepare, err := commands.NewChangeOrderStatusCommand(o.ID(), order.Preparing, seller)
	suite.Require().NoError(err)
	cancel, err := commands.NewChangeOrderStatusCommand(o.ID(), order.Cancelled, buyer)
	suite.Require().NoError(err)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, cmd := range []commands.ChangeOrderStatusCommand{prepare, cancel} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = change.Handle(ctx, cmd)
		}()
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			suite.Require().ErrorIs(err, order.ErrInvalidTransition)
			failures++
		}
	}

	stored := suite.reload(o.ID()).Status()
	switch failures {
	case 0:
		// Serialized: preparing committed first and cancelling from PREPARING is allowed.
		suite.Equal(order.Cancelled, stored)
	case 1:
		suite.Contains([]order.Status{order.Preparing, order.Cancelled}, stored)
	default:
		suite.Failf("both changes failed", "%v", errs)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPickupReminder_SecondRunSendsNoDuplicates() {
	ctx := suite.T().Context()
	first := suite.storeOrder(order.ReadyForPickup)
	second := suite.storeOrder(order.ReadyForPickup)
	suite.storeOrder(order.Preparing)

	remind := commands.NewRemindPendingPickupsCommandHandler(orderUoWFactory{suite.factory}, suite.notifier, suite.clock)
	cmd, err := commands.NewRemindPendingPickupsCommand(30*time.Minute, 1)
	suite.Require().NoError(err)

	sent, err := remind.Handle(ctx, cmd)
	suite.Require().NoError(err)
	suite.Equal(1, sent)

	sent, err = remind.Handle(ctx, cmd)
	suite.Require().NoError(err)
	suite.Equal(1, sent, "a full batch of reminded orders must not starve the next one")

	sent, err = remind.Handle(ctx, cmd)
	suite.Require().NoError(err)
	suite.Zero(sent)

	reminded := map[string]int{}
	for _, e := range suite.notifier.events {
		if reminder, ok := e.(order.PickupReminder); ok {
			reminded[reminder.OrderID.String()]++
		}
	}
	suite.Equal(map[string]int{first.ID().String(): 1, second.ID().String(): 1}, reminded)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPickupReminder_NotifyFailureLeavesOrderUnreminded() {
	ctx := suite.T().Context()
	suite.storeOrder(order.ReadyForPickup)

	remind := commands.NewRemindPendingPickupsCommandHandler(orderUoWFactory{suite.factory}, suite.notifier, suite.clock)
	cmd, err := commands.NewRemindPendingPickupsCommand(30*time.Minute, 10)
	suite.Require().NoError(err)

	suite.notifier.err = errors.New("broker down")
	_, err = remind.Handle(ctx, cmd)
	suite.Require().Error(err)

	suite.notifier.err = nil
	sent, err := remind.Handle(ctx, cmd)
	suite.Require().NoError(err)
	suite.Equal(1, sent)
}

// storeOrder commits an order in status through a unit of work.
func (suite *UnitOfWorkIntegrationTestSuite) storeOrder(status order.Status) *order.Order {
	ctx := suite.T().Context()
	o := suite.restoreOrder(status)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) readyOrderWithoutPersistence() *order.Order {
	return suite.restoreOrder(order.ReadyForPickup)
}

func (suite *UnitOfWorkIntegrationTestSuite) restoreOrder(status order.Status) *order.Order {
	total, err := kernel.MoneyFromString("24.00")
	suite.Require().NoError(err)
	o, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		2, total, "", status, now.Add(-2*time.Hour), now.Add(-time.Hour),
	)
	suite.Require().NoError(err)
	return o
}

// markReady moves a PREPARING order to READY_FOR_PICKUP as its seller and returns the
// pickup token handed out.
func (suite *UnitOfWorkIntegrationTestSuite) markReady(o *order.Order) string {
	seller, err := actor.NewSeller(o.SellerID())
	suite.Require().NoError(err)

	change := commands.NewChangeOrderStatusCommandHandler(pickupUoWFactory{suite.factory}, suite.tokens, suite.clock)
	cmd, err := commands.NewChangeOrderStatusCommand(o.ID(), order.ReadyForPickup, seller)
	suite.Require().NoError(err)

	res, err := change.Handle(suite.T().Context(), cmd)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(res.PickupToken)
	return res.PickupToken
}

func (suite *UnitOfWorkIntegrationTestSuite) adminOf(branchID kernel.UUID) actor.Actor {
	admin, err := actor.NewBranchAdmin(kernel.NewUUID(), branchID)
	suite.Require().NoError(err)
	return admin
}

func (suite *UnitOfWorkIntegrationTestSuite) reload(id kernel.UUID) *order.Order {
	o, err := suite.factory.Create().OrderRepository().Get(suite.T().Context(), id)
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
