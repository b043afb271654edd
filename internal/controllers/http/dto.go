package http

import "marketplace-service/internal/domain"

type PlaceOrderRequest struct {
	ProductID   string             `json:"productId" binding:"required"`
	Fulfillment domain.Fulfillment `json:"fulfillment"`
}

type PlaceOrderResponse struct {
	ID     string             `json:"id"`
	Status domain.OrderStatus `json:"status"`
}

type DisposeOrderRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
