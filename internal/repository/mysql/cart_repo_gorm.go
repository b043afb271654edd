package mysql

import (
	"context"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/repository"

	"gorm.io/gorm"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) Save(ctx context.Context, e *domain.CartEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *cartRepo) FindByBuyer(ctx context.Context, buyerID string) ([]domain.CartEntry, error) {
	var out []domain.CartEntry
	if err := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).Order("added_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cartRepo) Delete(ctx context.Context, buyerID, entryID string) error {
	return r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Delete(&domain.CartEntry{}, "id = ?", entryID).Error
}
