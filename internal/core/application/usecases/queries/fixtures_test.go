package queries_test

import (
	"context"
	"time"

	"pickup/internal/adapters/out/postgres/orderrepo"
	"pickup/internal/adapters/out/postgres/pgtest"
	"pickup/internal/adapters/out/postgres/pickuprepo"
	"pickup/internal/adapters/out/tokensigner"
	"pickup/internal/core/application/pickuptoken"
	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/pkg/clock"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var now = time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)

type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(kernel.UUID, any) {}

// databaseSuite is embedded by the handler suites; it owns the container and seeds rows
// through the real repositories.
type databaseSuite struct {
	suite.Suite
	database  *pgtest.Database
	db        *gorm.DB
	orderRepo *orderrepo.GormOrderRepository
	tokenRepo *pickuprepo.GormTokenRepository
	confirms  *pickuprepo.GormConfirmationRepository
	tokens    *pickuptoken.Service
}

func (suite *databaseSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.db = database.DB

	suite.orderRepo = orderrepo.NewGormOrderRepository(suite.db, &mockAggregateTracker{})
	suite.tokenRepo = pickuprepo.NewGormTokenRepository(suite.db)
	suite.confirms = pickuprepo.NewGormConfirmationRepository(suite.db)
	suite.tokens = suite.tokenService(0)
}

func (suite *databaseSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *databaseSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Stop(context.Background()))
	}
}

func (suite *databaseSuite) tokenService(ttl time.Duration) *pickuptoken.Service {
	clk := clock.NewFixed(now)
	signer, err := tokensigner.NewHMACSigner([]byte("0123456789abcdef0123456789abcdef"), "pickup", clk)
	suite.Require().NoError(err)
	service, err := pickuptoken.NewService(signer, clk, ttl)
	suite.Require().NoError(err)
	return service
}

// addOrder stores an order in status between fresh parties, last updated at updatedAt.
func (suite *databaseSuite) addOrder(status order.Status, branchID kernel.UUID, updatedAt time.Time) *order.Order {
	total, err := kernel.MoneyFromString("59.70")
	suite.Require().NoError(err)

	o, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), branchID,
		3, total, "gift wrap", status, now.Add(-48*time.Hour), updatedAt,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

// issue stores a live token for o and returns its opaque form.
func (suite *databaseSuite) issue(o *order.Order) (*pickup.Token, string) {
	token, opaque, err := suite.tokens.Issue(context.Background(), suite.tokenRepo, o.ID(), o.BranchID())
	suite.Require().NoError(err)
	return token, opaque
}

func (suite *databaseSuite) buyerOf(o *order.Order) actor.Actor {
	buyer, err := actor.NewBuyer(o.BuyerID())
	suite.Require().NoError(err)
	return buyer
}

func (suite *databaseSuite) adminOf(branchID kernel.UUID) actor.Actor {
	admin, err := actor.NewBranchAdmin(kernel.NewUUID(), branchID)
	suite.Require().NoError(err)
	return admin
}
