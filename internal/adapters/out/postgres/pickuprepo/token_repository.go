package pickuprepo

import (
	"context"
	"errors"
	"fmt"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTokenRepository implements PickupTokenRepository using GORM.
type GormTokenRepository struct {
	db *gorm.DB
}

// NewGormTokenRepository creates a token repository bound to db, which is usually a
// transaction handle.
func NewGormTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

// Issue inserts the token, or overwrites the existing row of the order when that row is
// consumed. The overwrite is guarded in SQL so two concurrent issues cannot both succeed.
func (r *GormTokenRepository) Issue(ctx context.Context, token *pickup.Token) error {
	if err := token.Validate(); err != nil {
		return err
	}
	if !token.IsLive() {
		return errs.NewValueIsInvalidErrorWithCause("pickup token", errors.New("only live tokens can be issued"))
	}

	dto := tokenFromDomain(token)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"branch_id", "nonce", "issued_at", "consumed", "consumed_at", "consume_reason",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: dto.TableName(), Name: "consumed"}, Value: true},
		}},
	}).Create(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s", pickup.ErrTokenAlreadyIssued, token.OrderID())
	}
	return nil
}

// Get returns the token row of an order.
func (r *GormTokenRepository) Get(ctx context.Context, orderID kernel.UUID) (*pickup.Token, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto TokenDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pickup token", orderID.String())
		}
		return nil, err
	}

	return tokenToDomain(dto)
}

// Consume flips the row to consumed if it still holds the same nonce and is live.
// Concurrent consumers serialize on the row lock; every one but the first sees zero
// affected rows and gets pickup.ErrTokenAlreadyConsumed, or
// pickup.ErrTokenInvalidOrExpired when the winner revoked the token.
func (r *GormTokenRepository) Consume(ctx context.Context, token *pickup.Token) error {
	if err := token.Validate(); err != nil {
		return err
	}
	if token.IsLive() || token.ConsumedAt() == nil {
		return errs.NewValueIsInvalidErrorWithCause("pickup token", errors.New("token must be redeemed or revoked first"))
	}

	result := r.db.WithContext(ctx).
		Model(&TokenDTO{}).
		Where("order_id = ? AND nonce = ? AND consumed = ?", token.OrderID().Bytes(), token.Nonce(), false).
		Updates(map[string]any{
			"consumed":       true,
			"consumed_at":    *token.ConsumedAt(),
			"consume_reason": int16(token.ConsumeReason()),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.consumeConflict(ctx, token)
	}
	return nil
}

// consumeConflict tells a revoked token apart from one somebody else redeemed or
// replaced first.
func (r *GormTokenRepository) consumeConflict(ctx context.Context, token *pickup.Token) error {
	var current TokenDTO
	err := r.db.WithContext(ctx).
		Select("consume_reason").
		Where("order_id = ? AND nonce = ?", token.OrderID().Bytes(), token.Nonce()).
		Take(&current).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err == nil && pickup.ConsumeReason(current.ConsumeReason) == pickup.Revoked {
		return fmt.Errorf("%w: order %s was cancelled", pickup.ErrTokenInvalidOrExpired, token.OrderID())
	}
	return fmt.Errorf("%w: order %s", pickup.ErrTokenAlreadyConsumed, token.OrderID())
}
