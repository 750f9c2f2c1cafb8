package queries

import (
	"context"

	"pickup/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetBranchReadyOrdersQueryHandler lists READY_FOR_PICKUP orders of a branch, longest
// waiting first.
type GetBranchReadyOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetBranchReadyOrdersQueryHandler creates the handler.
func NewGetBranchReadyOrdersQueryHandler(db *gorm.DB) GetBranchReadyOrdersQueryHandler {
	return GetBranchReadyOrdersQueryHandler{db: db}
}

// Handle executes the query. An empty branch yields an empty, non-nil slice.
func (h GetBranchReadyOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetBranchReadyOrdersQuery,
) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderViewColumns+`
		FROM orders o
		LEFT JOIN pickup_confirmations c ON c.order_id = o.id
		WHERE o.branch_id = ? AND o.status = ?
		ORDER BY o.updated_at, o.id
	`, query.BranchID().Bytes(), int(order.ReadyForPickup)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]OrderView, 0)
	for rows.Next() {
		view, scanErr := scanOrderView(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		views = append(views, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
