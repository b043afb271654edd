package repository

import (
	"context"

	"marketplace-service/internal/domain"
)

// The store collaborator exposes insert-with-generated-id, fetch-by-id,
// update, delete-by-id and equality-filtered lists. Implementations return
// (nil, nil) when a looked-up record does not exist.

type ProductRepository interface {
	Save(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindBySeller(ctx context.Context, sellerID string) ([]domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]domain.Category, error)
}

type OrderRepository interface {
	// CreateWithQueueEntry persists the order and its seller queue entry as
	// one logical operation; the entry is never written for an order that
	// failed to persist.
	CreateWithQueueEntry(ctx context.Context, o *domain.Order, q *domain.OrderQueueEntry) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
	// TransitionStatus is a compare-and-set status write: the order and its
	// queue entry move from one status to the other together, or not at
	// all. Returns false when the order was no longer in the expected state.
	TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error)
	QueueBySeller(ctx context.Context, sellerID string) ([]domain.OrderQueueEntry, error)
}

type CartRepository interface {
	Save(ctx context.Context, e *domain.CartEntry) error
	FindByBuyer(ctx context.Context, buyerID string) ([]domain.CartEntry, error)
	Delete(ctx context.Context, buyerID, entryID string) error
}

type CommentRepository interface {
	Save(ctx context.Context, c *domain.Comment) error
	FindByProduct(ctx context.Context, productID string) ([]domain.Comment, error)
}
