// Package pickuprepo persists pickup tokens and pickup confirmations.
package pickuprepo

import (
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/pickup"

	"github.com/google/uuid"
)

// TokenDTO is the single token row of an order. Re-issuing overwrites it in place.
type TokenDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID      uuid.UUID `gorm:"type:uuid;not null"`
	Nonce         string    `gorm:"not null"`
	IssuedAt      time.Time `gorm:"not null"`
	Consumed      bool      `gorm:"not null"`
	ConsumedAt    *time.Time
	ConsumeReason int16 `gorm:"type:smallint;not null"`
}

func (TokenDTO) TableName() string {
	return "pickup_tokens"
}

// ConfirmationDTO is the immutable handover record of an order.
type ConfirmationDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID   uuid.UUID `gorm:"type:uuid;not null"`
	Code       string    `gorm:"not null"`
	RedeemedBy uuid.UUID `gorm:"type:uuid;not null"`
	RedeemedAt time.Time `gorm:"not null"`
}

func (ConfirmationDTO) TableName() string {
	return "pickup_confirmations"
}

func tokenFromDomain(t *pickup.Token) TokenDTO {
	return TokenDTO{
		OrderID:       t.OrderID().Bytes(),
		BranchID:      t.BranchID().Bytes(),
		Nonce:         t.Nonce(),
		IssuedAt:      t.IssuedAt(),
		Consumed:      !t.IsLive(),
		ConsumedAt:    t.ConsumedAt(),
		ConsumeReason: int16(t.ConsumeReason()),
	}
}

func tokenToDomain(dto TokenDTO) (*pickup.Token, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}

	var consumedAt *time.Time
	if dto.ConsumedAt != nil {
		at := dto.ConsumedAt.UTC()
		consumedAt = &at
	}

	return pickup.RestoreToken(
		orderID,
		branchID,
		dto.Nonce,
		dto.IssuedAt.UTC(),
		consumedAt,
		pickup.ConsumeReason(dto.ConsumeReason),
	)
}

func confirmationFromDomain(c *pickup.Confirmation) ConfirmationDTO {
	return ConfirmationDTO{
		OrderID:    c.OrderID().Bytes(),
		BranchID:   c.BranchID().Bytes(),
		Code:       c.Code(),
		RedeemedBy: c.RedeemedBy().Bytes(),
		RedeemedAt: c.RedeemedAt(),
	}
}

func confirmationToDomain(dto ConfirmationDTO) (*pickup.Confirmation, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}
	redeemedBy, err := kernel.UUIDFromBytes(dto.RedeemedBy[:])
	if err != nil {
		return nil, err
	}

	return pickup.RestoreConfirmation(orderID, branchID, redeemedBy, dto.Code, dto.RedeemedAt.UTC())
}
