package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRenderer re-produces the opaque string of a stored token.
type TokenRenderer interface {
	Render(token *pickup.Token) (string, error)
	TTL() time.Duration
}

// GetPickupTokenQueryHandler reads the token record of the buyer's order and renders it.
type GetPickupTokenQueryHandler struct {
	db       *gorm.DB
	renderer TokenRenderer
}

// NewGetPickupTokenQueryHandler creates the handler.
func NewGetPickupTokenQueryHandler(db *gorm.DB, renderer TokenRenderer) GetPickupTokenQueryHandler {
	return GetPickupTokenQueryHandler{db: db, renderer: renderer}
}

// Handle returns the current token.
//
// Returns:
//   - *errs.ObjectNotFoundError when the order is unknown, belongs to another buyer or
//     has no token yet
//   - pickup.ErrTokenAlreadyConsumed once the order was picked up
//   - pickup.ErrTokenInvalidOrExpired when the token was revoked
func (h GetPickupTokenQueryHandler) Handle(
	ctx context.Context,
	query GetPickupTokenQuery,
) (GetPickupTokenQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPickupTokenQueryResponse{}, err
	}

	var (
		buyerID       uuid.UUID
		branchID      uuid.NullUUID
		nonce         sql.NullString
		issuedAt      sql.NullTime
		consumedAt    sql.NullTime
		consumeReason sql.NullInt16
	)

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.buyer_id,
			t.branch_id,
			t.nonce,
			t.issued_at,
			t.consumed_at,
			t.consume_reason
		FROM orders o
		LEFT JOIN pickup_tokens t ON t.order_id = o.id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Row().Scan(
		&buyerID, &branchID, &nonce, &issuedAt, &consumedAt, &consumeReason,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetPickupTokenQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetPickupTokenQueryResponse{}, err
	}

	owner, err := kernel.UUIDFromBytes(buyerID[:])
	if err != nil {
		return GetPickupTokenQueryResponse{}, err
	}
	if !owner.IsEqual(query.Buyer().ID()) {
		return GetPickupTokenQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if !branchID.Valid || !nonce.Valid || !issuedAt.Valid {
		return GetPickupTokenQueryResponse{}, errs.NewObjectNotFoundError("pickup token", query.OrderID().String())
	}

	branch, err := kernel.UUIDFromBytes(branchID.UUID[:])
	if err != nil {
		return GetPickupTokenQueryResponse{}, err
	}

	var consumed *time.Time
	if consumedAt.Valid {
		at := consumedAt.Time.UTC()
		consumed = &at
	}

	token, err := pickup.RestoreToken(
		query.OrderID(),
		branch,
		nonce.String,
		issuedAt.Time.UTC(),
		consumed,
		pickup.ConsumeReason(consumeReason.Int16),
	)
	if err != nil {
		return GetPickupTokenQueryResponse{}, err
	}

	opaque, err := h.renderer.Render(token)
	if err != nil {
		return GetPickupTokenQueryResponse{}, err
	}

	resp := GetPickupTokenQueryResponse{
		OrderID:  token.OrderID(),
		BranchID: token.BranchID(),
		Token:    opaque,
		IssuedAt: token.IssuedAt(),
	}
	if ttl := h.renderer.TTL(); ttl > 0 {
		exp := token.IssuedAt().Add(ttl)
		resp.ExpiresAt = &exp
	}
	return resp, nil
}
