package mysql

import (
	"context"
	"errors"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) CreateWithQueueEntry(ctx context.Context, o *domain.Order, q *domain.OrderQueueEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		return tx.Create(q).Error
	})
	if err != nil {
		log.Error().Err(err).Str("orderId", o.ID).Msg("order fan-out insert failed")
	}
	return err
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).Order("placed_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	var applied bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", orderID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&domain.OrderQueueEntry{}).
			Where("order_id = ?", orderID).
			Update("status", to).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

func (r *orderRepo) QueueBySeller(ctx context.Context, sellerID string) ([]domain.OrderQueueEntry, error) {
	var out []domain.OrderQueueEntry
	if err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("placed_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
