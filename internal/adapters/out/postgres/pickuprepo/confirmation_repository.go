package pickuprepo

import (
	"context"
	"errors"
	"fmt"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/model/pickup"
	"pickup/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormConfirmationRepository implements PickupConfirmationRepository using GORM.
type GormConfirmationRepository struct {
	db *gorm.DB
}

// NewGormConfirmationRepository creates a confirmation repository bound to db.
func NewGormConfirmationRepository(db *gorm.DB) *GormConfirmationRepository {
	return &GormConfirmationRepository{db: db}
}

// Add inserts the confirmation. The primary key on order_id turns a second handover of
// the same order into order.ErrAlreadyPickedUp.
func (r *GormConfirmationRepository) Add(ctx context.Context, confirmation *pickup.Confirmation) error {
	if err := confirmation.Validate(); err != nil {
		return err
	}

	dto := confirmationFromDomain(confirmation)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: order %s", order.ErrAlreadyPickedUp, confirmation.OrderID())
		}
		return err
	}
	return nil
}

// Get returns the confirmation of an order.
func (r *GormConfirmationRepository) Get(ctx context.Context, orderID kernel.UUID) (*pickup.Confirmation, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto ConfirmationDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pickup confirmation", orderID.String())
		}
		return nil, err
	}

	return confirmationToDomain(dto)
}
