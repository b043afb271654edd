package services

import (
	"context"
	"fmt"
	"strings"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/repository"

	"github.com/google/uuid"
)

type CommentService struct {
	comments repository.CommentRepository
	products repository.ProductRepository
}

func NewCommentService(comments repository.CommentRepository, products repository.ProductRepository) *CommentService {
	return &CommentService{comments: comments, products: products}
}

// AddComment appends one comment as a single insert, so concurrent
// commenters never overwrite each other.
func (s *CommentService) AddComment(ctx context.Context, productID, authorID, text string) (*domain.Comment, error) {
	if authorID == "" {
		return nil, domain.ErrAuthRequired
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", domain.ErrValidation)
	}

	prod, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch product: %v", domain.ErrStore, err)
	}
	if prod == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}

	c := &domain.Comment{
		ID:        uuid.NewString(),
		ProductID: productID,
		AuthorID:  authorID,
		Text:      text,
	}
	if err := s.comments.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("%w: save comment: %v", domain.ErrStore, err)
	}
	return c, nil
}

func (s *CommentService) ListComments(ctx context.Context, productID string) ([]domain.Comment, error) {
	out, err := s.comments.FindByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: list comments: %v", domain.ErrStore, err)
	}
	return out, nil
}
