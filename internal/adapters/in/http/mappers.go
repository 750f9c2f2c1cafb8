package http

import (
	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/generated/servers"
)

func orderFromAggregate(o *order.Order, pickupCode string) servers.Order {
	return servers.Order{
		Id:         o.ID().Bytes(),
		BuyerId:    o.BuyerID().Bytes(),
		SellerId:   o.SellerID().Bytes(),
		ProductId:  o.ProductID().Bytes(),
		BranchId:   o.BranchID().Bytes(),
		Quantity:   o.Quantity(),
		Total:      o.Total().String(),
		Notes:      optional(o.Notes()),
		Status:     servers.OrderStatus(o.Status().String()),
		PickupCode: optional(pickupCode),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}
}

func orderFromView(v queries.OrderView) servers.Order {
	return servers.Order{
		Id:         v.ID.Bytes(),
		BuyerId:    v.BuyerID.Bytes(),
		SellerId:   v.SellerID.Bytes(),
		ProductId:  v.ProductID.Bytes(),
		BranchId:   v.BranchID.Bytes(),
		Quantity:   v.Quantity,
		Total:      v.Total.String(),
		Notes:      optional(v.Notes),
		Status:     servers.OrderStatus(v.Status.String()),
		PickupCode: optional(v.PickupCode),
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func pickupTokenFromResult(res commands.ChangeOrderStatusResult) servers.PickupToken {
	token := servers.PickupToken{
		OrderId:   res.Order.ID().Bytes(),
		BranchId:  res.Order.BranchID().Bytes(),
		Token:     res.PickupToken,
		IssuedAt:  res.Order.UpdatedAt(),
		ExpiresAt: res.TokenExpiresAt,
	}
	if res.Token != nil {
		token.IssuedAt = res.Token.IssuedAt()
	}
	return token
}

func pickupTokenFromQuery(resp queries.GetPickupTokenQueryResponse) servers.PickupToken {
	return servers.PickupToken{
		OrderId:   resp.OrderID.Bytes(),
		BranchId:  resp.BranchID.Bytes(),
		Token:     resp.Token,
		IssuedAt:  resp.IssuedAt,
		ExpiresAt: resp.ExpiresAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
