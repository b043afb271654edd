package services

import (
	"context"
	"fmt"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/infra/assets"
	"marketplace-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProductInput carries the seller-supplied listing fields. Category is
// optional; everything else is required.
type ProductInput struct {
	Name           string
	Price          decimal.Decimal
	Description    string
	Category       string
	RestaurantName string
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrValidation)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if in.RestaurantName == "" {
		return fmt.Errorf("%w: restaurant name is required", domain.ErrValidation)
	}
	return nil
}

type CatalogService struct {
	products repository.ProductRepository
	assets   assets.Store
}

func NewCatalogService(products repository.ProductRepository, store assets.Store) *CatalogService {
	return &CatalogService{products: products, assets: store}
}

// CreateProduct uploads the image first so no catalog record ever references
// a missing asset. A record-insert failure after a successful upload leaves
// the asset orphaned; it is logged for an offline sweep, not compensated.
func (s *CatalogService) CreateProduct(ctx context.Context, sellerID string, in ProductInput, image *assets.Upload) (*domain.Product, error) {
	if sellerID == "" {
		return nil, domain.ErrAuthRequired
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if image == nil || image.Content == nil {
		return nil, fmt.Errorf("%w: product image is required", domain.ErrValidation)
	}

	uri, err := s.assets.Put(ctx, assets.ObjectName(image.Filename), image.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: upload image: %v", domain.ErrStore, err)
	}

	p := &domain.Product{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Price:          in.Price,
		Description:    in.Description,
		Category:       in.Category,
		RestaurantName: in.RestaurantName,
		ImageURL:       uri,
		SellerID:       sellerID,
	}
	if err := s.products.Save(ctx, p); err != nil {
		log.Error().Err(err).Str("imageUri", uri).Msg("product insert failed after image upload, asset orphaned")
		return nil, fmt.Errorf("%w: save product: %v", domain.ErrStore, err)
	}
	return p, nil
}

// UpdateProduct replaces the image when a new one is supplied: old asset is
// deleted before the new upload. A failure between the two leaves the record
// pointing at a deleted asset until the seller retries.
func (s *CatalogService) UpdateProduct(ctx context.Context, sellerID, productID string, in ProductInput, newImage *assets.Upload) (*domain.Product, error) {
	if sellerID == "" {
		return nil, domain.ErrAuthRequired
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch product: %v", domain.ErrStore, err)
	}
	if p == nil || p.SellerID != sellerID {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}

	if newImage != nil && newImage.Content != nil {
		if p.ImageURL != "" {
			if err := s.assets.Delete(ctx, p.ImageURL); err != nil {
				return nil, fmt.Errorf("%w: delete old image: %v", domain.ErrStore, err)
			}
		}
		uri, err := s.assets.Put(ctx, assets.ObjectName(newImage.Filename), newImage.Content)
		if err != nil {
			log.Error().Err(err).Str("productId", p.ID).Msg("new image upload failed after old asset delete")
			return nil, fmt.Errorf("%w: upload image: %v", domain.ErrStore, err)
		}
		p.ImageURL = uri
	}

	p.Name = in.Name
	p.Price = in.Price
	p.Description = in.Description
	p.Category = in.Category
	p.RestaurantName = in.RestaurantName

	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: update product: %v", domain.ErrStore, err)
	}
	return p, nil
}

// DeleteProduct removes the asset first. If that fails the catalog record
// stays intact and the failure propagates; a listing that still renders
// beats a dangling image reference.
func (s *CatalogService) DeleteProduct(ctx context.Context, sellerID, productID string) error {
	if sellerID == "" {
		return domain.ErrAuthRequired
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: fetch product: %v", domain.ErrStore, err)
	}
	if p == nil || p.SellerID != sellerID {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}

	if p.ImageURL != "" {
		if err := s.assets.Delete(ctx, p.ImageURL); err != nil {
			return fmt.Errorf("%w: delete image: %v", domain.ErrStore, err)
		}
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		return fmt.Errorf("%w: delete product: %v", domain.ErrStore, err)
	}
	return nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch product: %v", domain.ErrStore, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	return p, nil
}

func (s *CatalogService) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	if sellerID == "" {
		return nil, domain.ErrAuthRequired
	}
	out, err := s.products.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrStore, err)
	}
	return out, nil
}

func (s *CatalogService) ListAll(ctx context.Context) ([]domain.Product, error) {
	out, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrStore, err)
	}
	return out, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out, err := s.products.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", domain.ErrStore, err)
	}
	return out, nil
}
