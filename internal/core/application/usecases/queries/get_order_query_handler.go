package queries

import (
	"context"
	"database/sql"
	"errors"

	"pickup/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order together with its pickup code.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID, buyer)
//
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order, or not one of the caller's
//	}
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order view. Orders the actor is not a party to are reported as not
// found so their existence is not revealed.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT `+orderViewColumns+`
		FROM orders o
		LEFT JOIN pickup_confirmations c ON c.order_id = o.id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Row()

	view, err := scanOrderView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return OrderView{}, err
	}

	if !view.IsVisibleTo(query.Actor()) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	return view, nil
}
