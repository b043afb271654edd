package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Fulfillment is the buyer-supplied delivery detail block. All three fields
// are required; no format validation beyond non-empty.
type Fulfillment struct {
	Name    string `json:"name" gorm:"column:fulfillment_name;size:255"`
	Address string `json:"address" gorm:"column:fulfillment_address;size:512"`
	Phone   string `json:"phone" gorm:"column:fulfillment_phone;size:32"`
}

func (f Fulfillment) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: fulfillment name is required", ErrValidation)
	}
	if f.Address == "" {
		return fmt.Errorf("%w: fulfillment address is required", ErrValidation)
	}
	if f.Phone == "" {
		return fmt.Errorf("%w: fulfillment phone is required", ErrValidation)
	}
	return nil
}

// Order is the buyer-authoritative record of a purchase request. Product
// fields are a snapshot taken when the order was placed and are never
// re-validated against the live product.
type Order struct {
	ID           string          `json:"id" gorm:"primaryKey;size:36"`
	BuyerID      string          `json:"buyerId" gorm:"size:36;not null;index"`
	SellerID     string          `json:"sellerId" gorm:"size:36;not null;index"`
	ProductID    string          `json:"productId" gorm:"size:36;not null"`
	ProductName  string          `json:"productName" gorm:"size:255"`
	ProductPrice decimal.Decimal `json:"productPrice" gorm:"type:decimal(10,2)"`
	ProductImage string          `json:"productImage" gorm:"size:512"`
	Fulfillment  Fulfillment     `json:"fulfillment" gorm:"embedded"`
	Status       OrderStatus     `json:"status" gorm:"size:16;not null;default:'Pending';index"`
	PlacedAt     time.Time       `json:"placedAt" gorm:"autoCreateTime"`
}

// OrderQueueEntry is the seller-scoped projection of an Order. It is written
// in the same transaction as the Order and disposition updates both rows
// together, so the two can not diverge.
type OrderQueueEntry struct {
	ID           string          `json:"id" gorm:"primaryKey;size:36"`
	OrderID      string          `json:"orderId" gorm:"size:36;not null;uniqueIndex"`
	SellerID     string          `json:"sellerId" gorm:"size:36;not null;index"`
	BuyerID      string          `json:"buyerId" gorm:"size:36;not null"`
	BuyerName    string          `json:"buyerName" gorm:"size:255"`
	ProductName  string          `json:"productName" gorm:"size:255"`
	ProductPrice decimal.Decimal `json:"productPrice" gorm:"type:decimal(10,2)"`
	ProductImage string          `json:"productImage" gorm:"size:512"`
	Status       OrderStatus     `json:"status" gorm:"size:16;not null"`
	PlacedAt     time.Time       `json:"placedAt"`
}
