// Package tokensigner encodes pickup token claims as compact HS256 JWS strings.
//
// Layout of a token:
//
//	sub  order id
//	bid  branch id
//	jti  single-use nonce
//	iat  issuance time
//	exp  issuance time + validity window (only when a window is configured)
//	iss  configured issuer
package tokensigner

import (
	"errors"
	"fmt"
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/pkg/clock"
	"pickup/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimal HMAC key size accepted, matching the HS256 output size.
const MinSecretLength = 32

type pickupClaims struct {
	BranchID string `json:"bid"`
	jwt.RegisteredClaims
}

// HMACSigner implements ports.PickupTokenSigner with a shared secret.
type HMACSigner struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

// NewHMACSigner creates a signer. clk drives expiry checks while parsing.
func NewHMACSigner(secret []byte, issuer string, clk clock.Clock) (*HMACSigner, error) {
	if len(secret) < MinSecretLength {
		return nil, errs.NewValueIsOutOfRangeError("pickup token secret length", len(secret), MinSecretLength, "unbounded")
	}
	if issuer == "" {
		return nil, errs.NewValueIsRequiredError("issuer")
	}
	if clk == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}

	return &HMACSigner{
		secret: secret,
		issuer: issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithTimeFunc(clk.Now),
		),
	}, nil
}

// Sign encodes claims into a compact JWS.
func (s *HMACSigner) Sign(claims pickup.Claims, expiresAt *time.Time) (string, error) {
	registered := jwt.RegisteredClaims{
		Issuer:   s.issuer,
		Subject:  claims.OrderID.String(),
		ID:       claims.Nonce,
		IssuedAt: jwt.NewNumericDate(claims.IssuedAt),
	}
	if expiresAt != nil {
		registered.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, pickupClaims{
		BranchID:         claims.BranchID.String(),
		RegisteredClaims: registered,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign pickup token: %w", err)
	}
	return signed, nil
}

// Parse verifies opaque and returns its claims. Every failure, including an elapsed
// exp, is reported as pickup.ErrTokenInvalidOrExpired.
func (s *HMACSigner) Parse(opaque string) (pickup.Claims, error) {
	var parsed pickupClaims
	if _, err := s.parser.ParseWithClaims(opaque, &parsed, s.key); err != nil {
		return pickup.Claims{}, fmt.Errorf("%w: %w", pickup.ErrTokenInvalidOrExpired, err)
	}

	orderID, err := kernel.UUIDFromString(parsed.Subject)
	if err != nil {
		return pickup.Claims{}, fmt.Errorf("%w: subject: %w", pickup.ErrTokenInvalidOrExpired, err)
	}
	branchID, err := kernel.UUIDFromString(parsed.BranchID)
	if err != nil {
		return pickup.Claims{}, fmt.Errorf("%w: branch: %w", pickup.ErrTokenInvalidOrExpired, err)
	}
	if parsed.ID == "" || parsed.IssuedAt == nil {
		return pickup.Claims{}, fmt.Errorf("%w: missing nonce or issue time", pickup.ErrTokenInvalidOrExpired)
	}

	return pickup.Claims{
		OrderID:  orderID,
		BranchID: branchID,
		Nonce:    parsed.ID,
		IssuedAt: parsed.IssuedAt.UTC(),
	}, nil
}

func (s *HMACSigner) key(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return s.secret, nil
}
