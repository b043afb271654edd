package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartEntry denormalizes the full product at add time. Duplicate entries for
// the same buyer/product are allowed; there is no stock check and no
// checkout operation defined.
type CartEntry struct {
	ID             string          `json:"id" gorm:"primaryKey;size:36"`
	BuyerID        string          `json:"buyerId" gorm:"size:36;not null;index"`
	ProductID      string          `json:"productId" gorm:"size:36;not null"`
	Name           string          `json:"name" gorm:"size:255"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Description    string          `json:"description" gorm:"type:text"`
	Category       string          `json:"category" gorm:"size:100"`
	RestaurantName string          `json:"restaurantName" gorm:"size:255"`
	ImageURL       string          `json:"imageUrl" gorm:"size:512"`
	SellerID       string          `json:"sellerId" gorm:"size:36"`
	AddedAt        time.Time       `json:"addedAt" gorm:"autoCreateTime"`
}

// SnapshotOf builds a cart entry from the product's current state.
func SnapshotOf(buyerID string, p *Product) *CartEntry {
	return &CartEntry{
		BuyerID:        buyerID,
		ProductID:      p.ID,
		Name:           p.Name,
		Price:          p.Price,
		Description:    p.Description,
		Category:       p.Category,
		RestaurantName: p.RestaurantName,
		ImageURL:       p.ImageURL,
		SellerID:       p.SellerID,
	}
}
