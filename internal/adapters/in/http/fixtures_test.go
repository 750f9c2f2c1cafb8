package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "pickup/internal/adapters/in/http"
	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const authSecret = "test-auth-secret-0123456789abcdef"

var testNow = time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockChangeOrderStatusHandler struct{ mock.Mock }

func (m *MockChangeOrderStatusHandler) Handle(
	ctx context.Context,
	cmd commands.ChangeOrderStatusCommand,
) (commands.ChangeOrderStatusResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ChangeOrderStatusResult), args.Error(1)
}

type MockRedeemPickupHandler struct{ mock.Mock }

func (m *MockRedeemPickupHandler) Handle(
	ctx context.Context,
	cmd commands.RedeemPickupCommand,
) (commands.RedeemPickupResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RedeemPickupResult), args.Error(1)
}

type MockGetOrderHandler struct{ mock.Mock }

func (m *MockGetOrderHandler) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderView), args.Error(1)
}

type MockGetPickupTokenHandler struct{ mock.Mock }

func (m *MockGetPickupTokenHandler) Handle(
	ctx context.Context,
	query queries.GetPickupTokenQuery,
) (queries.GetPickupTokenQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetPickupTokenQueryResponse), args.Error(1)
}

type MockGetBranchReadyOrdersHandler struct{ mock.Mock }

func (m *MockGetBranchReadyOrdersHandler) Handle(
	ctx context.Context,
	query queries.GetBranchReadyOrdersQuery,
) ([]queries.OrderView, error) {
	args := m.Called(ctx, query)
	if views, ok := args.Get(0).([]queries.OrderView); ok {
		return views, args.Error(1)
	}
	return nil, args.Error(1)
}

type api struct {
	e *echo.Echo

	create      *MockCreateOrderHandler
	change      *MockChangeOrderStatusHandler
	redeem      *MockRedeemPickupHandler
	getOrder    *MockGetOrderHandler
	getToken    *MockGetPickupTokenHandler
	branchReady *MockGetBranchReadyOrdersHandler

	healthErr error
}

func newAPI(t *testing.T) *api {
	t.Helper()

	a := &api{
		create:      &MockCreateOrderHandler{},
		change:      &MockChangeOrderStatusHandler{},
		redeem:      &MockRedeemPickupHandler{},
		getOrder:    &MockGetOrderHandler{},
		getToken:    &MockGetPickupTokenHandler{},
		branchReady: &MockGetBranchReadyOrdersHandler{},
	}

	logger := slog.New(slog.DiscardHandler)
	server := httpin.NewServer(a.create, a.change, a.redeem, a.getOrder, a.getToken, a.branchReady, logger)

	auth, err := httpin.NewAuthenticator([]byte(authSecret), "")
	require.NoError(t, err)

	e, err := httpin.NewRouter(httpin.RouterConfig{
		Server:        server,
		Authenticator: auth,
		Health:        func(context.Context) error { return a.healthErr },
		Logger:        logger,
	})
	require.NoError(t, err)
	a.e = e

	return a
}

func (a *api) assertExpectations(t *testing.T) {
	t.Helper()
	a.create.AssertExpectations(t)
	a.change.AssertExpectations(t)
	a.redeem.AssertExpectations(t)
	a.getOrder.AssertExpectations(t)
	a.getToken.AssertExpectations(t)
	a.branchReady.AssertExpectations(t)
}

func (a *api) do(method, path, bearer, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func accessToken(t *testing.T, claims httpin.AccessClaims) string {
	t.Helper()

	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(authSecret))
	require.NoError(t, err)
	return signed
}

func buyerToken(t *testing.T, id kernel.UUID) string {
	return accessToken(t, httpin.AccessClaims{
		Role:             "buyer",
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
	})
}

func sellerToken(t *testing.T, id kernel.UUID) string {
	return accessToken(t, httpin.AccessClaims{
		Role:             "seller",
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
	})
}

func adminToken(t *testing.T, id, branchID kernel.UUID) string {
	return accessToken(t, httpin.AccessClaims{
		Role:             "branch_admin",
		BranchID:         branchID.String(),
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
	})
}

func newOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	total, err := kernel.MoneyFromString("59.70")
	require.NoError(t, err)

	o, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		3, total, "gift wrap", status, testNow.Add(-time.Hour), testNow,
	)
	require.NoError(t, err)
	return o
}

func viewOf(o *order.Order) queries.OrderView {
	return queries.OrderView{
		ID:        o.ID(),
		BuyerID:   o.BuyerID(),
		SellerID:  o.SellerID(),
		ProductID: o.ProductID(),
		BranchID:  o.BranchID(),
		Quantity:  o.Quantity(),
		Total:     o.Total(),
		Notes:     o.Notes(),
		Status:    o.Status(),
		CreatedAt: o.CreatedAt(),
		UpdatedAt: o.UpdatedAt(),
	}
}

func orderPath(o *order.Order, suffix string) string {
	return "/api/v1/orders/" + o.ID().String() + suffix
}
