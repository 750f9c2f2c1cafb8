// Package pickuptoken issues, validates and renders the single-use tokens a buyer shows
// at the branch. Storage is always passed in by the caller so that every read and write
// happens inside the caller's unit of work.
package pickuptoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/clock"
	"pickup/internal/pkg/errs"
)

// Service implements the pickup token protocol on top of a PickupTokenSigner.
//
// Example:
//
//	svc, _ := pickuptoken.NewService(signer, clock.NewSystem(), 0)
//
//	// seller marks the order ready, inside the same transaction
//	_, opaque, err := svc.Issue(ctx, uow.PickupTokenRepository(), o.ID(), o.BranchID())
//
//	// branch admin scans it later
//	token, err := svc.Validate(ctx, uow.PickupTokenRepository(), opaque)
type Service struct {
	signer ports.PickupTokenSigner
	clock  clock.Clock
	ttl    time.Duration
}

// NewService creates a Service. ttl <= 0 means tokens never expire.
func NewService(signer ports.PickupTokenSigner, clk clock.Clock, ttl time.Duration) (*Service, error) {
	if signer == nil {
		return nil, errs.NewValueIsRequiredError("signer")
	}
	if clk == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Service{signer: signer, clock: clk, ttl: ttl}, nil
}

// TTL returns the configured validity window (0 = no expiry).
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue creates a token bound to orderID and branchID, stores it and returns the record
// together with its opaque string.
//
// Returns pickup.ErrTokenAlreadyIssued when the order already holds a live token.
func (s *Service) Issue(
	ctx context.Context,
	tokens ports.PickupTokenRepository,
	orderID, branchID kernel.UUID,
) (*pickup.Token, string, error) {
	nonce, err := pickup.NewNonce()
	if err != nil {
		return nil, "", err
	}

	token, err := pickup.NewToken(orderID, branchID, nonce, s.clock.Now())
	if err != nil {
		return nil, "", err
	}

	if err = tokens.Issue(ctx, token); err != nil {
		return nil, "", err
	}

	opaque, err := s.Render(token)
	if err != nil {
		return nil, "", err
	}
	return token, opaque, nil
}

// Validate checks an opaque string presented at the branch against the stored record.
// It does not consume anything.
//
// Returns:
//   - the stored token record when it is live and matches
//   - pickup.ErrTokenInvalidOrExpired for forged, malformed, unknown, replaced, revoked
//     or expired tokens
//   - pickup.ErrTokenAlreadyConsumed for a token that was already redeemed
func (s *Service) Validate(
	ctx context.Context,
	tokens ports.PickupTokenRepository,
	opaque string,
) (*pickup.Token, error) {
	claims, err := s.signer.Parse(opaque)
	if err != nil {
		return nil, err
	}

	token, err := tokens.Get(ctx, claims.OrderID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: no token for order %s", pickup.ErrTokenInvalidOrExpired, claims.OrderID)
		}
		return nil, err
	}

	if err = token.CheckPresented(claims, s.clock.Now(), s.ttl); err != nil {
		return nil, err
	}
	return token, nil
}

// Render re-produces the opaque string of a live token. Rendering the same record twice
// yields the same string.
func (s *Service) Render(token *pickup.Token) (string, error) {
	if err := token.Validate(); err != nil {
		return "", err
	}
	switch token.ConsumeReason() {
	case pickup.Redeemed:
		return "", pickup.ErrTokenAlreadyConsumed
	case pickup.Revoked:
		return "", fmt.Errorf("%w: revoked", pickup.ErrTokenInvalidOrExpired)
	case pickup.NotConsumed:
	}

	var expiresAt *time.Time
	if s.ttl > 0 {
		exp := token.IssuedAt().Add(s.ttl)
		expiresAt = &exp
	}
	return s.signer.Sign(token.Claims(), expiresAt)
}

// Revoke invalidates the live token of orderID, if there is one. It is a no-op for
// orders that never got a token or whose token is already consumed.
func (s *Service) Revoke(ctx context.Context, tokens ports.PickupTokenRepository, orderID kernel.UUID) error {
	token, err := tokens.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}
	if !token.IsLive() {
		return nil
	}

	if err = token.Revoke(s.clock.Now()); err != nil {
		return err
	}
	return tokens.Consume(ctx, token)
}
