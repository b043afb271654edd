package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderPlacedEvent struct {
	OrderID      string          `json:"orderId"`
	BuyerID      string          `json:"buyerId"`
	SellerID     string          `json:"sellerId"`
	ProductID    string          `json:"productId"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	PlacedAt     time.Time       `json:"placedAt"`
}

type OrderDisposedEvent struct {
	OrderID    string      `json:"orderId"`
	SellerID   string      `json:"sellerId"`
	Status     OrderStatus `json:"status"`
	DisposedAt time.Time   `json:"disposedAt"`
}
