package mysql

import (
	"context"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/repository"

	"gorm.io/gorm"
)

type commentRepo struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) repository.CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Save(ctx context.Context, c *domain.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *commentRepo) FindByProduct(ctx context.Context, productID string) ([]domain.Comment, error) {
	var out []domain.Comment
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
