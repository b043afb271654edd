package services

import (
	"context"
	"fmt"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/repository"

	"github.com/google/uuid"
)

type CartService struct {
	cart     repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(cart repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{cart: cart, products: products}
}

// AddToCart inserts a full snapshot of the product as it is right now.
// Adding the same product twice yields two entries; there is no dedup and
// no stock check.
func (s *CartService) AddToCart(ctx context.Context, buyerID, productID string) (*domain.CartEntry, error) {
	if buyerID == "" {
		return nil, domain.ErrAuthRequired
	}

	prod, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch product: %v", domain.ErrStore, err)
	}
	if prod == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}

	entry := domain.SnapshotOf(buyerID, prod)
	entry.ID = uuid.NewString()
	if err := s.cart.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: save cart entry: %v", domain.ErrStore, err)
	}
	return entry, nil
}

func (s *CartService) ListCart(ctx context.Context, buyerID string) ([]domain.CartEntry, error) {
	if buyerID == "" {
		return nil, domain.ErrAuthRequired
	}
	out, err := s.cart.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list cart: %v", domain.ErrStore, err)
	}
	return out, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, buyerID, entryID string) error {
	if buyerID == "" {
		return domain.ErrAuthRequired
	}
	if err := s.cart.Delete(ctx, buyerID, entryID); err != nil {
		return fmt.Errorf("%w: remove cart entry: %v", domain.ErrStore, err)
	}
	return nil
}
