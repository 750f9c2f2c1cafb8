package http

import (
	"context"
	"log/slog"
	"net/http"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}

	ChangeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (commands.ChangeOrderStatusResult, error)
	}

	RedeemPickupHandler interface {
		Handle(ctx context.Context, cmd commands.RedeemPickupCommand) (commands.RedeemPickupResult, error)
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}

	GetPickupTokenHandler interface {
		Handle(ctx context.Context, query queries.GetPickupTokenQuery) (queries.GetPickupTokenQueryResponse, error)
	}

	GetBranchReadyOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetBranchReadyOrdersQuery) ([]queries.OrderView, error)
	}
)

// Server implements servers.ServerInterface.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler  CreateOrderHandler
	changeStatusHandler ChangeOrderStatusHandler
	redeemPickupHandler RedeemPickupHandler

	// Query handlers
	getOrderHandler             GetOrderHandler
	getPickupTokenHandler       GetPickupTokenHandler
	getBranchReadyOrdersHandler GetBranchReadyOrdersHandler

	logger *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler CreateOrderHandler,
	changeStatusHandler ChangeOrderStatusHandler,
	redeemPickupHandler RedeemPickupHandler,
	getOrderHandler GetOrderHandler,
	getPickupTokenHandler GetPickupTokenHandler,
	getBranchReadyOrdersHandler GetBranchReadyOrdersHandler,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		createOrderHandler:          createOrderHandler,
		changeStatusHandler:         changeStatusHandler,
		redeemPickupHandler:         redeemPickupHandler,
		getOrderHandler:             getOrderHandler,
		getPickupTokenHandler:       getPickupTokenHandler,
		getBranchReadyOrdersHandler: getBranchReadyOrdersHandler,
		logger:                      logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	caller, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.CreateOrderJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Kind:    servers.VALIDATIONFAILED,
			Message: "Invalid request body",
		})
	}

	productID, err := kernel.UUIDFromBytes(body.ProductId[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	branchID, err := kernel.UUIDFromBytes(body.BranchId[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	var notes string
	if body.Notes != nil {
		notes = *body.Notes
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), caller, productID, branchID, body.Quantity, notes)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderFromAggregate(o, ""))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId servers.OrderId) error {
	caller, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(id, caller)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderFromView(view))
}

// ConfirmPayment handles POST /api/v1/orders/{orderId}/payment-confirmation.
func (s *Server) ConfirmPayment(ctx echo.Context, orderId servers.OrderId) error {
	res, err := s.changeStatus(ctx, orderId, order.PaymentConfirmed)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromAggregate(res.Order, ""))
}

// MarkPreparing handles POST /api/v1/orders/{orderId}/preparation.
func (s *Server) MarkPreparing(ctx echo.Context, orderId servers.OrderId) error {
	res, err := s.changeStatus(ctx, orderId, order.Preparing)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromAggregate(res.Order, ""))
}

// MarkReady handles POST /api/v1/orders/{orderId}/ready - the response carries the
// freshly issued pickup token.
func (s *Server) MarkReady(ctx echo.Context, orderId servers.OrderId) error {
	res, err := s.changeStatus(ctx, orderId, order.ReadyForPickup)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.ReadyOrder{
		Order:       orderFromAggregate(res.Order, ""),
		PickupToken: pickupTokenFromResult(res),
	})
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancellation.
func (s *Server) CancelOrder(ctx echo.Context, orderId servers.OrderId) error {
	res, err := s.changeStatus(ctx, orderId, order.Cancelled)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromAggregate(res.Order, ""))
}

// GetPickupToken handles GET /api/v1/orders/{orderId}/pickup-token.
func (s *Server) GetPickupToken(ctx echo.Context, orderId servers.OrderId) error {
	resp, err := s.pickupToken(ctx, orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.PickupTokenEnvelope{
		PickupToken: pickupTokenFromQuery(resp),
	})
}

// GetPickupTokenQr handles GET /api/v1/orders/{orderId}/pickup-token/qr - the same token
// as GetPickupToken, encoded as a PNG QR code for the branch scanner.
func (s *Server) GetPickupTokenQr(ctx echo.Context, orderId servers.OrderId, params servers.GetPickupTokenQrParams) error {
	size := defaultQRSize
	if params.Size != nil {
		size = *params.Size
	}
	if size < minQRSize || size > maxQRSize {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Kind:    servers.VALIDATIONFAILED,
			Message: "size must be between 128 and 1024",
		})
	}

	resp, err := s.pickupToken(ctx, orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	png, err := qrcode.Encode(resp.Token, qrcode.Medium, size)
	if err != nil {
		return s.fail(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return ctx.Blob(http.StatusOK, "image/png", png)
}

// RedeemPickup handles POST /api/v1/pickups - a branch admin scanned a token.
func (s *Server) RedeemPickup(ctx echo.Context) error {
	caller, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.RedeemPickupJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Kind:    servers.VALIDATIONFAILED,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewRedeemPickupCommand(body.Token, caller)
	if err != nil {
		return s.fail(ctx, err)
	}

	res, err := s.redeemPickupHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.PickupConfirmation{
		Order:      orderFromAggregate(res.Order, res.Confirmation.Code()),
		PickupCode: res.Confirmation.Code(),
		RedeemedAt: res.Confirmation.RedeemedAt(),
	})
}

// GetBranchReadyOrders handles GET /api/v1/branches/{branchId}/orders/ready.
func (s *Server) GetBranchReadyOrders(ctx echo.Context, branchId openapi_types.UUID) error {
	caller, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	id, err := kernel.UUIDFromBytes(branchId[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetBranchReadyOrdersQuery(id, caller)
	if err != nil {
		return s.fail(ctx, err)
	}

	views, err := s.getBranchReadyOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.Order, len(views))
	for i, view := range views {
		response[i] = orderFromView(view)
	}

	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) changeStatus(
	ctx echo.Context,
	orderId servers.OrderId,
	target order.Status,
) (commands.ChangeOrderStatusResult, error) {
	caller, err := actorFrom(ctx)
	if err != nil {
		return commands.ChangeOrderStatusResult{}, err
	}

	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return commands.ChangeOrderStatusResult{}, err
	}

	cmd, err := commands.NewChangeOrderStatusCommand(id, target, caller)
	if err != nil {
		return commands.ChangeOrderStatusResult{}, err
	}

	return s.changeStatusHandler.Handle(ctx.Request().Context(), cmd)
}

func (s *Server) pickupToken(ctx echo.Context, orderId servers.OrderId) (queries.GetPickupTokenQueryResponse, error) {
	caller, err := actorFrom(ctx)
	if err != nil {
		return queries.GetPickupTokenQueryResponse{}, err
	}

	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return queries.GetPickupTokenQueryResponse{}, err
	}

	query, err := queries.NewGetPickupTokenQuery(id, caller)
	if err != nil {
		return queries.GetPickupTokenQueryResponse{}, err
	}

	return s.getPickupTokenHandler.Handle(ctx.Request().Context(), query)
}

// fail writes err as a servers.Error. Unexpected errors are logged and reported without
// their text.
func (s *Server) fail(ctx echo.Context, err error) error {
	status, kind := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message = "Internal server error"
	}

	return ctx.JSON(status, servers.Error{
		Code:    status,
		Kind:    kind,
		Message: message,
	})
}
