// Package servers provides primitives to interact with the openapi HTTP API.
//
// The types, ServerInterface and the echo wrapper are produced by oapi-codegen from
// api/openapi.yml using api/oapi-codegen.yaml; run go generate ./api after editing the
// document. GetSwagger lives in swagger.go so regeneration leaves it alone.
package servers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for ErrorKind.
const (
	ALREADYPICKEDUP       ErrorKind = "ALREADY_PICKED_UP"
	BRANCHMISMATCH        ErrorKind = "BRANCH_MISMATCH"
	INTERNAL              ErrorKind = "INTERNAL"
	INVALIDTRANSITION     ErrorKind = "INVALID_TRANSITION"
	ORDERNOTFOUND         ErrorKind = "ORDER_NOT_FOUND"
	TOKENALREADYCONSUMED  ErrorKind = "TOKEN_ALREADY_CONSUMED"
	TOKENALREADYISSUED    ErrorKind = "TOKEN_ALREADY_ISSUED"
	TOKENINVALIDOREXPIRED ErrorKind = "TOKEN_INVALID_OR_EXPIRED"
	UNAUTHORIZED          ErrorKind = "UNAUTHORIZED"
	VALIDATIONFAILED      ErrorKind = "VALIDATION_FAILED"
)

// Defines values for OrderStatus.
const (
	CANCELLED        OrderStatus = "CANCELLED"
	PAYMENTCONFIRMED OrderStatus = "PAYMENT_CONFIRMED"
	PENDING          OrderStatus = "PENDING"
	PICKEDUP         OrderStatus = "PICKED_UP"
	PREPARING        OrderStatus = "PREPARING"
	READYFORPICKUP   OrderStatus = "READY_FOR_PICKUP"
)

// Error defines model for Error.
type Error struct {
	Code    int       `json:"code"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ErrorKind defines model for Error.Kind.
type ErrorKind string

// NewOrder defines model for NewOrder.
type NewOrder struct {
	BranchId  openapi_types.UUID `json:"branchId"`
	Notes     *string            `json:"notes,omitempty"`
	ProductId openapi_types.UUID `json:"productId"`
	Quantity  int                `json:"quantity"`
}

// Order defines model for Order.
type Order struct {
	BranchId  openapi_types.UUID `json:"branchId"`
	BuyerId   openapi_types.UUID `json:"buyerId"`
	CreatedAt time.Time          `json:"createdAt"`
	Id        openapi_types.UUID `json:"id"`
	Notes     *string            `json:"notes,omitempty"`

	// PickupCode Human readable handover code, set once the order is picked up
	PickupCode *string            `json:"pickupCode,omitempty"`
	ProductId  openapi_types.UUID `json:"productId"`
	Quantity   int                `json:"quantity"`
	SellerId   openapi_types.UUID `json:"sellerId"`
	Status     OrderStatus        `json:"status"`

	// Total Decimal amount with two fraction digits
	Total     string    `json:"total"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderStatus defines model for OrderStatus.
type OrderStatus string

// PickupConfirmation defines model for PickupConfirmation.
type PickupConfirmation struct {
	Order      Order     `json:"order"`
	PickupCode string    `json:"pickupCode"`
	RedeemedAt time.Time `json:"redeemedAt"`
}

// PickupToken defines model for PickupToken.
type PickupToken struct {
	BranchId  openapi_types.UUID `json:"branchId"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty"`
	IssuedAt  time.Time          `json:"issuedAt"`
	OrderId   openapi_types.UUID `json:"orderId"`

	// Token Opaque value to present at the branch
	Token string `json:"token"`
}

// PickupTokenEnvelope defines model for PickupTokenEnvelope.
type PickupTokenEnvelope struct {
	PickupToken PickupToken `json:"pickupToken"`
}

// ReadyOrder defines model for ReadyOrder.
type ReadyOrder struct {
	Order       Order       `json:"order"`
	PickupToken PickupToken `json:"pickupToken"`
}

// RedeemPickupRequest defines model for RedeemPickupRequest.
type RedeemPickupRequest struct {
	Token string `json:"token"`
}

// OrderId defines model for OrderId.
type OrderId = openapi_types.UUID

// GetPickupTokenQrParams defines parameters for GetPickupTokenQr.
type GetPickupTokenQrParams struct {
	// Size Edge length of the image in pixels
	Size *int `form:"size,omitempty" json:"size,omitempty"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// RedeemPickupJSONRequestBody defines body for RedeemPickup for application/json ContentType.
type RedeemPickupJSONRequestBody = RedeemPickupRequest

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Branch admin lists orders waiting at the branch
	// (GET /api/v1/branches/{branchId}/orders/ready)
	GetBranchReadyOrders(ctx echo.Context, branchId openapi_types.UUID) error
	// Place an order for pickup at a branch
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// Get an order the caller is a party to
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId OrderId) error
	// Buyer or seller cancels the order
	// (POST /api/v1/orders/{orderId}/cancellation)
	CancelOrder(ctx echo.Context, orderId OrderId) error
	// Seller confirms the buyer paid
	// (POST /api/v1/orders/{orderId}/payment-confirmation)
	ConfirmPayment(ctx echo.Context, orderId OrderId) error
	// Buyer fetches the pickup token of the order
	// (GET /api/v1/orders/{orderId}/pickup-token)
	GetPickupToken(ctx echo.Context, orderId OrderId) error
	// Buyer fetches the pickup token rendered as a QR code
	// (GET /api/v1/orders/{orderId}/pickup-token/qr)
	GetPickupTokenQr(ctx echo.Context, orderId OrderId, params GetPickupTokenQrParams) error
	// Seller starts preparing the order
	// (POST /api/v1/orders/{orderId}/preparation)
	MarkPreparing(ctx echo.Context, orderId OrderId) error
	// Seller marks the order ready at the branch and receives the pickup token
	// (POST /api/v1/orders/{orderId}/ready)
	MarkReady(ctx echo.Context, orderId OrderId) error
	// Branch admin redeems a scanned pickup token
	// (POST /api/v1/pickups)
	RedeemPickup(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetBranchReadyOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetBranchReadyOrders(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "branchId" -------------
	var branchId openapi_types.UUID

	err = runtime.BindStyledParameterWithLocation("simple", false, "branchId", runtime.ParamLocationPath, ctx.Param("branchId"), &branchId)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter branchId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	err = w.Handler.GetBranchReadyOrders(ctx, branchId)
	return err
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	err = w.Handler.CreateOrder(ctx)
	return err
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	err = w.Handler.GetOrder(ctx, orderId)
	return err
}

// CancelOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	err = w.Handler.CancelOrder(ctx, orderId)
	return err
}

// ConfirmPayment converts echo context to params.
func (w *ServerInterfaceWrapper) ConfirmPayment(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	err = w.Handler.ConfirmPayment(ctx, orderId)
	return err
}

// GetPickupToken converts echo context to params.
func (w *ServerInterfaceWrapper) GetPickupToken(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	err = w.Handler.GetPickupToken(ctx, orderId)
	return err
}

// GetPickupTokenQr converts echo context to params.
func (w *ServerInterfaceWrapper) GetPickupTokenQr(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Parameter object where we will unmarshal all parameters from the context
	var params GetPickupTokenQrParams
	// ------------- Optional query parameter "size" -------------

	err = runtime.BindQueryParameter("form", true, false, "size", ctx.QueryParams(), &params.Size)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter size: %s", err))
	}

	err = w.Handler.GetPickupTokenQr(ctx, orderId, params)
	return err
}

// MarkPreparing converts echo context to params.
func (w *ServerInterfaceWrapper) MarkPreparing(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	err = w.Handler.MarkPreparing(ctx, orderId)
	return err
}

// MarkReady converts echo context to params.
func (w *ServerInterfaceWrapper) MarkReady(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	err = w.Handler.MarkReady(ctx, orderId)
	return err
}

// RedeemPickup converts echo context to params.
func (w *ServerInterfaceWrapper) RedeemPickup(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	err = w.Handler.RedeemPickup(ctx)
	return err
}

func bindOrderID(ctx echo.Context) (OrderId, error) {
	// ------------- Path parameter "orderId" -------------
	var orderId OrderId

	err := runtime.BindStyledParameterWithLocation("simple", false, "orderId", runtime.ParamLocationPath, ctx.Param("orderId"), &orderId)
	if err != nil {
		return orderId, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}
	return orderId, nil
}

// EchoRouter is a simple interface which specifies echo.Route addition functions which
// are present on both echo.Echo and echo.Group, since we want to allow using
// either of them for path registration
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the paths, so
// that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/branches/:branchId/orders/ready", wrapper.GetBranchReadyOrders)
	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId", wrapper.GetOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/cancellation", wrapper.CancelOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/payment-confirmation", wrapper.ConfirmPayment)
	router.GET(baseURL+"/api/v1/orders/:orderId/pickup-token", wrapper.GetPickupToken)
	router.GET(baseURL+"/api/v1/orders/:orderId/pickup-token/qr", wrapper.GetPickupTokenQr)
	router.POST(baseURL+"/api/v1/orders/:orderId/preparation", wrapper.MarkPreparing)
	router.POST(baseURL+"/api/v1/orders/:orderId/ready", wrapper.MarkReady)
	router.POST(baseURL+"/api/v1/pickups", wrapper.RedeemPickup)
}
