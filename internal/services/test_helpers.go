package services

import (
	"time"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/infra/identity"

	"github.com/shopspring/decimal"
)

func CreateMockProduct(id, sellerID string, price decimal.Decimal) *domain.Product {
	return &domain.Product{
		ID:             id,
		Name:           "Pizza",
		Price:          price,
		Description:    "Wood-fired margherita",
		Category:       "Italian",
		RestaurantName: "Tony's",
		ImageURL:       "http://localhost:8080/assets/products/1_pizza.jpg",
		SellerID:       sellerID,
		CreatedAt:      time.Now(),
	}
}

func CreateMockOrder(id, buyerID, sellerID string, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:           id,
		BuyerID:      buyerID,
		SellerID:     sellerID,
		ProductID:    TestProductID,
		ProductName:  "Pizza",
		ProductPrice: decimal.NewFromFloat(9.99),
		Fulfillment:  ValidFulfillment(),
		Status:       status,
		PlacedAt:     time.Now(),
	}
}

func CreateMockBuyer(id, name string) *identity.User {
	return &identity.User{
		ID:    id,
		Name:  name,
		Email: name + "@example.com",
		Role:  "customer",
	}
}

func ValidFulfillment() domain.Fulfillment {
	return domain.Fulfillment{
		Name:    "Alice",
		Address: "1 Main St",
		Phone:   "555-0100",
	}
}

const (
	TestProductID = "prod-1"
	TestOrderID   = "order-1"
	TestBuyerID   = "buyer-1"
	TestSellerID  = "seller-1"
)
