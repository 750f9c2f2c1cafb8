package pickup

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
)

// NonceSize is the number of random bytes in a token nonce (256 bits).
const NonceSize = 32

// ConsumeReason tells why a token stopped being live.
type ConsumeReason int

const (
	// NotConsumed marks a live token.
	NotConsumed ConsumeReason = iota
	// Redeemed marks a token consumed by a successful pickup.
	Redeemed
	// Revoked marks a token invalidated because its order was cancelled.
	Revoked
)

func (r ConsumeReason) String() string {
	switch r {
	case NotConsumed:
		return "NOT_CONSUMED"
	case Redeemed:
		return "REDEEMED"
	case Revoked:
		return "REVOKED"
	default:
		return "UNKNOWN"
	}
}

// Claims is the content encoded into the opaque token string handed to the buyer.
type Claims struct {
	OrderID  kernel.UUID
	BranchID kernel.UUID
	Nonce    string
	IssuedAt time.Time
}

// Token is the stored record behind a pickup token. There is at most one record per
// order; issuing again replaces it, which is only allowed once it is consumed.
type Token struct {
	orderID       kernel.UUID
	branchID      kernel.UUID
	nonce         string
	issuedAt      time.Time
	consumedAt    *time.Time
	consumeReason ConsumeReason

	isConstructed bool
}

// NewNonce returns NonceSize bytes from crypto/rand, base64url encoded without padding.
func NewNonce() (string, error) {
	b := make([]byte, NonceSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate pickup nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewToken creates a live token for orderID redeemable at branchID.
func NewToken(orderID, branchID kernel.UUID, nonce string, issuedAt time.Time) (*Token, error) {
	if err := errors.Join(orderID.Validate(), branchID.Validate()); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("token binding", err)
	}
	if nonce == "" {
		return nil, errs.NewValueIsRequiredError("nonce")
	}
	return &Token{
		orderID:       orderID,
		branchID:      branchID,
		nonce:         nonce,
		issuedAt:      issuedAt,
		isConstructed: true,
	}, nil
}

// RestoreToken rebuilds a token record read from storage.
func RestoreToken(
	orderID, branchID kernel.UUID,
	nonce string,
	issuedAt time.Time,
	consumedAt *time.Time,
	reason ConsumeReason,
) (*Token, error) {
	t, err := NewToken(orderID, branchID, nonce, issuedAt)
	if err != nil {
		return nil, err
	}
	if (consumedAt == nil) != (reason == NotConsumed) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"consume reason",
			fmt.Errorf("reason %s does not match consumed timestamp", reason),
		)
	}
	t.consumedAt = consumedAt
	t.consumeReason = reason
	return t, nil
}

// Validate ensures the token was created through a constructor.
func (t *Token) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTokenIsNotConstructed
	}
	return nil
}

// OrderID returns the order the token is bound to.
func (t *Token) OrderID() kernel.UUID { return t.orderID }

// BranchID returns the only branch where the token may be redeemed.
func (t *Token) BranchID() kernel.UUID { return t.branchID }

// Nonce returns the single-use random value.
func (t *Token) Nonce() string { return t.nonce }

// IssuedAt returns the issuance time.
func (t *Token) IssuedAt() time.Time { return t.issuedAt }

// ConsumedAt returns when the token stopped being live, or nil.
func (t *Token) ConsumedAt() *time.Time { return t.consumedAt }

// ConsumeReason returns why the token stopped being live.
func (t *Token) ConsumeReason() ConsumeReason { return t.consumeReason }

// IsLive reports whether the token can still be redeemed (ignoring expiry).
func (t *Token) IsLive() bool { return t.consumeReason == NotConsumed }

// Claims returns the content to encode for the buyer.
func (t *Token) Claims() Claims {
	return Claims{
		OrderID:  t.orderID,
		BranchID: t.branchID,
		Nonce:    t.nonce,
		IssuedAt: t.issuedAt,
	}
}

// CheckPresented verifies that presented claims refer to this record and that the
// record is still redeemable at now. ttl <= 0 disables expiry.
//
// Returns:
//   - ErrTokenInvalidOrExpired for a foreign or replaced nonce, a revoked token, or an
//     expired one
//   - ErrTokenAlreadyConsumed for a token that was already redeemed
func (t *Token) CheckPresented(presented Claims, now time.Time, ttl time.Duration) error {
	if !presented.OrderID.IsEqual(t.orderID) || !presented.BranchID.IsEqual(t.branchID) {
		return fmt.Errorf("%w: binding does not match", ErrTokenInvalidOrExpired)
	}
	if subtle.ConstantTimeCompare([]byte(presented.Nonce), []byte(t.nonce)) != 1 {
		return fmt.Errorf("%w: nonce does not match", ErrTokenInvalidOrExpired)
	}

	switch t.consumeReason {
	case Redeemed:
		return ErrTokenAlreadyConsumed
	case Revoked:
		return fmt.Errorf("%w: revoked", ErrTokenInvalidOrExpired)
	case NotConsumed:
	}

	if ttl > 0 && now.After(t.issuedAt.Add(ttl)) {
		return fmt.Errorf("%w: issued at %s", ErrTokenInvalidOrExpired, t.issuedAt.Format(time.RFC3339))
	}
	return nil
}

// Redeem consumes a live token as picked up.
func (t *Token) Redeem(at time.Time) error {
	return t.consume(Redeemed, at)
}

// Revoke consumes a live token because its order was cancelled.
func (t *Token) Revoke(at time.Time) error {
	return t.consume(Revoked, at)
}

func (t *Token) consume(reason ConsumeReason, at time.Time) error {
	switch t.consumeReason {
	case Redeemed:
		return ErrTokenAlreadyConsumed
	case Revoked:
		return fmt.Errorf("%w: revoked", ErrTokenInvalidOrExpired)
	case NotConsumed:
	}
	t.consumeReason = reason
	t.consumedAt = &at
	return nil
}
