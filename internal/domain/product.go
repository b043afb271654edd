package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             string          `json:"id" gorm:"primaryKey;size:36"`
	Name           string          `json:"name" gorm:"size:255;not null"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Description    string          `json:"description" gorm:"type:text"`
	Category       string          `json:"category" gorm:"size:100;index"`
	RestaurantName string          `json:"restaurantName" gorm:"size:255"`
	ImageURL       string          `json:"imageUrl" gorm:"size:512"`
	// SellerID is immutable after creation; updates never touch it.
	SellerID  string    `json:"sellerId" gorm:"size:36;not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// Category is read-only from the service's perspective; rows are seeded out
// of band.
type Category struct {
	ID      string `json:"id" gorm:"primaryKey;size:36"`
	Name    string `json:"name" gorm:"size:100;not null"`
	IconURL string `json:"iconUrl" gorm:"size:512"`
}
