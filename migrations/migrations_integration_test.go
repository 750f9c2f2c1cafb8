package migrations_test

import (
	"context"
	"testing"

	"pickup/internal/adapters/out/postgres/pgtest"
	"pickup/migrations"

	"github.com/stretchr/testify/suite"
)

type MigrationsIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
}

func (suite *MigrationsIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *MigrationsIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Stop(context.Background()))
	}
}

func (suite *MigrationsIntegrationTestSuite) tables() []string {
	var names []string
	err := suite.database.DB.Raw(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name <> ?
		ORDER BY table_name
	`, migrations.TableName).Scan(&names).Error
	suite.Require().NoError(err)
	return names
}

func (suite *MigrationsIntegrationTestSuite) TestUpCreatesSchema() {
	suite.Equal([]string{"orders", "pickup_confirmations", "pickup_tokens", "products"}, suite.tables())

	sqlDB, err := suite.database.DB.DB()
	suite.Require().NoError(err)

	version, dirty, err := migrations.Version(suite.T().Context(), sqlDB)
	suite.Require().NoError(err)
	suite.False(dirty)
	suite.Equal(uint(5), version)
}

func (suite *MigrationsIntegrationTestSuite) TestUpIsIdempotent() {
	sqlDB, err := suite.database.DB.DB()
	suite.Require().NoError(err)

	suite.Require().NoError(migrations.Up(suite.T().Context(), sqlDB))
	suite.Require().NoError(migrations.Up(suite.T().Context(), sqlDB))
}

func (suite *MigrationsIntegrationTestSuite) TestTokenConsistencyIsEnforced() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.database.Truncate())

	suite.Require().NoError(suite.database.DB.WithContext(ctx).Exec(`
		INSERT INTO orders (id, buyer_id, seller_id, product_id, branch_id, quantity, total_amount, status, created_at, updated_at)
		VALUES (gen_random_uuid(), gen_random_uuid(), gen_random_uuid(), gen_random_uuid(), gen_random_uuid(), 1, 10, 4, now(), now())
	`).Error)

	err := suite.database.DB.WithContext(ctx).Exec(`
		INSERT INTO pickup_tokens (order_id, branch_id, nonce, issued_at, consumed, consumed_at, consume_reason)
		SELECT id, branch_id, 'n', now(), TRUE, NULL, 1 FROM orders
	`).Error
	suite.Require().Error(err)
}

func (suite *MigrationsIntegrationTestSuite) TestDownThenUp() {
	sqlDB, err := suite.database.DB.DB()
	suite.Require().NoError(err)

	suite.Require().NoError(migrations.Down(suite.T().Context(), sqlDB))
	suite.Empty(suite.tables())

	version, _, err := migrations.Version(suite.T().Context(), sqlDB)
	suite.Require().NoError(err)
	suite.Equal(uint(0), version)

	suite.Require().NoError(migrations.Up(suite.T().Context(), sqlDB))
	suite.Len(suite.tables(), 4)
}

func TestMigrationsIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(MigrationsIntegrationTestSuite))
}
