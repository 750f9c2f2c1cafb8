package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pickup/internal/core/domain/model/actor"
	"pickup/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const actorContextKey = "pickup.actor"

// AccessClaims are the claims of the bearer token identifying the caller. BranchID is
// required for branch admins and PrincipalID for seller delegates.
type AccessClaims struct {
	Role        string `json:"role"`
	BranchID    string `json:"branch_id,omitempty"`
	PrincipalID string `json:"principal_id,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens and puts the resulting actor.Actor into the
// echo context.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

// NewAuthenticator creates an Authenticator. A non-empty issuer must match the iss claim.
func NewAuthenticator(secret []byte, issuer string) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth secret is empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &Authenticator{
		secret: secret,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Middleware rejects requests without a valid bearer token. Requests for which skipper
// returns true pass through untouched.
func (a *Authenticator) Middleware(skipper middleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			caller, err := a.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error()).SetInternal(err)
			}

			c.Set(actorContextKey, caller)
			return next(c)
		}
	}
}

// Authenticate turns an Authorization header value into an actor.
func (a *Authenticator) Authenticate(header string) (actor.Actor, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return actor.Actor{}, fmt.Errorf("%w: missing bearer token", ErrUnauthenticated)
	}

	var claims AccessClaims
	if _, err := a.parser.ParseWithClaims(strings.TrimSpace(raw), &claims, a.key); err != nil {
		return actor.Actor{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	caller, err := claims.Actor()
	if err != nil {
		return actor.Actor{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return caller, nil
}

func (a *Authenticator) key(*jwt.Token) (any, error) {
	return a.secret, nil
}

// Actor builds the domain actor described by the claims.
func (c AccessClaims) Actor() (actor.Actor, error) {
	role, err := actor.ParseRole(c.Role)
	if err != nil {
		return actor.Actor{}, err
	}

	id, err := kernel.UUIDFromString(c.Subject)
	if err != nil {
		return actor.Actor{}, err
	}

	switch role {
	case actor.RoleBuyer:
		return actor.NewBuyer(id)
	case actor.RoleSeller:
		return actor.NewSeller(id)
	case actor.RoleSellerDelegate:
		principal, err := kernel.UUIDFromString(c.PrincipalID)
		if err != nil {
			return actor.Actor{}, err
		}
		return actor.NewSellerDelegate(id, principal)
	case actor.RoleBranchAdmin:
		branch, err := kernel.UUIDFromString(c.BranchID)
		if err != nil {
			return actor.Actor{}, err
		}
		return actor.NewBranchAdmin(id, branch)
	case actor.RoleUnknown:
	}
	return actor.Actor{}, fmt.Errorf("role %q cannot call the api", c.Role)
}

func actorFrom(ctx echo.Context) (actor.Actor, error) {
	caller, ok := ctx.Get(actorContextKey).(actor.Actor)
	if !ok {
		return actor.Actor{}, ErrUnauthenticated
	}
	return caller, nil
}
