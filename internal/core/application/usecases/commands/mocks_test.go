package commands_test

import (
	"context"
	"testing"
	"time"

	"pickup/internal/adapters/out/tokensigner"
	"pickup/internal/core/application/pickuptoken"
	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/clock"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetReadyForPickupBefore(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]*order.Order, error) {
	args := m.Called(ctx, before, limit)
	if o, ok := args.Get(0).([]*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) MarkReminded(ctx context.Context, id kernel.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

type MockPickupTokenRepository struct{ mock.Mock }

func (m *MockPickupTokenRepository) Issue(ctx context.Context, token *pickup.Token) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockPickupTokenRepository) Get(ctx context.Context, orderID kernel.UUID) (*pickup.Token, error) {
	args := m.Called(ctx, orderID)
	if t, ok := args.Get(0).(*pickup.Token); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPickupTokenRepository) Consume(ctx context.Context, token *pickup.Token) error {
	return m.Called(ctx, token).Error(0)
}

type MockPickupConfirmationRepository struct{ mock.Mock }

func (m *MockPickupConfirmationRepository) Add(ctx context.Context, c *pickup.Confirmation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockPickupConfirmationRepository) Get(ctx context.Context, orderID kernel.UUID) (*pickup.Confirmation, error) {
	args := m.Called(ctx, orderID)
	if c, ok := args.Get(0).(*pickup.Confirmation); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) PickupTokenRepository() ports.PickupTokenRepository {
	return m.Called().Get(0).(ports.PickupTokenRepository)
}

func (m *MockUoW) PickupConfirmationRepository() ports.PickupConfirmationRepository {
	return m.Called().Get(0).(ports.PickupConfirmationRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockPickupUoWFactory struct{ mock.Mock }

func (m *MockPickupUoWFactory) Create() commands.PickupUoW {
	return m.Called().Get(0).(commands.PickupUoW)
}

type MockProductCatalog struct{ mock.Mock }

func (m *MockProductCatalog) GetProduct(ctx context.Context, id kernel.UUID) (ports.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Product), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, events ...order.Event) error {
	return m.Called(ctx, events).Error(0)
}

// pickupWorld bundles the parties of one order and a unit of work whose repositories are
// mocks. Repository accessors may be called any number of times.
type pickupWorld struct {
	buyer    actor.Actor
	seller   actor.Actor
	admin    actor.Actor
	orders   *MockOrderRepository
	tokens   *MockPickupTokenRepository
	confirms *MockPickupConfirmationRepository
	uow      *MockUoW
	factory  *MockPickupUoWFactory
	service  *pickuptoken.Service
	signer   *tokensigner.HMACSigner
}

func newPickupWorld(t *testing.T) *pickupWorld {
	t.Helper()

	w := &pickupWorld{
		orders:   new(MockOrderRepository),
		tokens:   new(MockPickupTokenRepository),
		confirms: new(MockPickupConfirmationRepository),
		uow:      new(MockUoW),
		factory:  new(MockPickupUoWFactory),
	}

	w.uow.On("OrderRepository").Return(w.orders).Maybe()
	w.uow.On("PickupTokenRepository").Return(w.tokens).Maybe()
	w.uow.On("PickupConfirmationRepository").Return(w.confirms).Maybe()
	w.factory.On("Create").Return(w.uow).Once()

	clk := clock.NewFixed(testNow)
	signer, err := tokensigner.NewHMACSigner([]byte("0123456789abcdef0123456789abcdef"), "pickup", clk)
	require.NoError(t, err)
	w.signer = signer
	w.service, err = pickuptoken.NewService(signer, clk, 0)
	require.NoError(t, err)

	return w
}

// newOrder restores an order in status owned by fresh buyer, seller and branch, and sets
// the world's actors to match it.
func (w *pickupWorld) newOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	buyerID, sellerID, branchID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	total, err := kernel.MoneyFromString("30.00")
	require.NoError(t, err)

	o, err := order.RestoreOrder(kernel.NewUUID(), buyerID, sellerID, kernel.NewUUID(), branchID,
		3, total, "", status, testNow.Add(-time.Hour), testNow.Add(-time.Hour))
	require.NoError(t, err)

	w.buyer, err = actor.NewBuyer(buyerID)
	require.NoError(t, err)
	w.seller, err = actor.NewSeller(sellerID)
	require.NoError(t, err)
	w.admin, err = actor.NewBranchAdmin(kernel.NewUUID(), branchID)
	require.NoError(t, err)

	return o
}

// liveToken creates a stored token for o and its opaque string.
func (w *pickupWorld) liveToken(t *testing.T, o *order.Order) (*pickup.Token, string) {
	t.Helper()

	nonce, err := pickup.NewNonce()
	require.NoError(t, err)
	token, err := pickup.NewToken(o.ID(), o.BranchID(), nonce, testNow.Add(-time.Minute))
	require.NoError(t, err)
	opaque, err := w.service.Render(token)
	require.NoError(t, err)
	return token, opaque
}

func (w *pickupWorld) assertExpectations(t *testing.T) {
	t.Helper()
	w.orders.AssertExpectations(t)
	w.tokens.AssertExpectations(t)
	w.confirms.AssertExpectations(t)
	w.uow.AssertExpectations(t)
	w.factory.AssertExpectations(t)
}
