package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/infra/identity"
	"marketplace-service/internal/infra/rabbitmq"
	"marketplace-service/internal/redisx"
	"marketplace-service/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	TopicOrderPlaced   = "order.placed"
	TopicOrderDisposed = "order.disposed"
)

type OrderService struct {
	orders      repository.OrderRepository
	products    repository.ProductRepository
	identity    identity.Provider
	publisher   rabbitmq.PublisherInterface
	redisClient *redis.Client
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, idp identity.Provider, pub rabbitmq.PublisherInterface) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		identity:  idp,
		publisher: pub,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// PlaceOrder validates fulfillment details, snapshots the product at read
// time and writes the Order together with its seller queue entry in one
// store transaction. When the caller supplies an idempotency key, a replay
// returns the original order without writing anything.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID, productID string, f domain.Fulfillment, idemKey string) (*domain.Order, error) {
	if buyerID == "" {
		return nil, domain.ErrAuthRequired
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if idemKey != "" && s.redisClient != nil {
		key := fmt.Sprintf(redisx.KeyIdemOrderPlace, idemKey)
		if orderID, err := s.redisClient.Get(ctx, key).Result(); err == nil && orderID != "" {
			existing, err := s.orders.FindByID(ctx, orderID)
			if err != nil {
				return nil, fmt.Errorf("%w: fetch existing order: %v", domain.ErrStore, err)
			}
			if existing != nil {
				return existing, nil
			}
		}
	}

	prod, err := s.getProductWithCache(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch product: %v", domain.ErrStore, err)
	}
	if prod == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	if prod.SellerID == "" {
		// A listing without an owner is upstream corruption, not user error.
		return nil, fmt.Errorf("%w: product %s has no seller", domain.ErrInvariant, productID)
	}

	buyer, err := s.identity.Lookup(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve buyer: %v", domain.ErrStore, err)
	}
	if buyer == nil {
		return nil, domain.ErrAuthRequired
	}

	now := time.Now()
	order := &domain.Order{
		ID:           uuid.NewString(),
		BuyerID:      buyerID,
		SellerID:     prod.SellerID,
		ProductID:    prod.ID,
		ProductName:  prod.Name,
		ProductPrice: prod.Price,
		ProductImage: prod.ImageURL,
		Fulfillment:  f,
		Status:       domain.StatusPending,
		PlacedAt:     now,
	}
	entry := &domain.OrderQueueEntry{
		ID:           uuid.NewString(),
		OrderID:      order.ID,
		SellerID:     prod.SellerID,
		BuyerID:      buyerID,
		BuyerName:    buyer.Name,
		ProductName:  prod.Name,
		ProductPrice: prod.Price,
		ProductImage: prod.ImageURL,
		Status:       domain.StatusPending,
		PlacedAt:     now,
	}

	if err := s.orders.CreateWithQueueEntry(ctx, order, entry); err != nil {
		return nil, fmt.Errorf("%w: place order: %v", domain.ErrStore, err)
	}

	if idemKey != "" && s.redisClient != nil {
		key := fmt.Sprintf(redisx.KeyIdemOrderPlace, idemKey)
		s.redisClient.SetNX(ctx, key, order.ID, redisx.TTLIdempotency)
	}

	go s.publishOrderPlaced(context.Background(), order)

	return order, nil
}

// DisposeOrder moves a pending order to Accepted or Rejected. The transition
// is compare-and-set: a concurrent disposition or an already-terminal order
// fails instead of silently overwriting.
func (s *OrderService) DisposeOrder(ctx context.Context, sellerID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if sellerID == "" {
		return nil, domain.ErrAuthRequired
	}
	if status != domain.StatusAccepted && status != domain.StatusRejected {
		return nil, fmt.Errorf("%w: status must be %s or %s", domain.ErrValidation, domain.StatusAccepted, domain.StatusRejected)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch order: %v", domain.ErrStore, err)
	}
	if order == nil || order.SellerID != sellerID {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}
	if !domain.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, status)
	}

	applied, err := s.orders.TransitionStatus(ctx, orderID, domain.StatusPending, status)
	if err != nil {
		return nil, fmt.Errorf("%w: update status: %v", domain.ErrStore, err)
	}
	if !applied {
		// Lost the race against another disposition.
		return nil, fmt.Errorf("%w: order %s is no longer pending", domain.ErrInvalidTransition, orderID)
	}
	order.Status = status

	go s.publishOrderDisposed(context.Background(), order)

	return order, nil
}

func (s *OrderService) ListBuyerOrders(ctx context.Context, buyerID string) ([]domain.Order, error) {
	if buyerID == "" {
		return nil, domain.ErrAuthRequired
	}
	out, err := s.orders.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", domain.ErrStore, err)
	}
	return out, nil
}

func (s *OrderService) ListSellerQueue(ctx context.Context, sellerID string) ([]domain.OrderQueueEntry, error) {
	if sellerID == "" {
		return nil, domain.ErrAuthRequired
	}
	out, err := s.orders.QueueBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list order queue: %v", domain.ErrStore, err)
	}
	return out, nil
}

func (s *OrderService) getProductWithCache(ctx context.Context, productID string) (*domain.Product, error) {
	cacheKey := fmt.Sprintf(redisx.KeyProduct, productID)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var prod domain.Product
			if err := json.Unmarshal([]byte(cached), &prod); err == nil {
				return &prod, nil
			}
		}
	}

	prod, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil && prod != nil {
		if data, err := json.Marshal(prod); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, redisx.TTLProductCache)
		}
	}

	return prod, nil
}

// WarmupProductCache primes the product cache for the given ids; lookup
// failures are logged and skipped.
func (s *OrderService) WarmupProductCache(ctx context.Context, productIDs []string) error {
	if s.redisClient == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range productIDs {
		id := id
		g.Go(func() error {
			prod, err := s.products.FindByID(ctx, id)
			if err != nil {
				log.Warn().Err(err).Str("productId", id).Msg("cache warmup lookup failed")
				return nil
			}
			if prod != nil {
				if data, err := json.Marshal(prod); err == nil {
					s.redisClient.Set(ctx, fmt.Sprintf(redisx.KeyProduct, id), data, redisx.TTLProductCache)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *OrderService) publishOrderPlaced(ctx context.Context, order *domain.Order) {
	evt := domain.OrderPlacedEvent{
		OrderID:      order.ID,
		BuyerID:      order.BuyerID,
		SellerID:     order.SellerID,
		ProductID:    order.ProductID,
		ProductPrice: order.ProductPrice,
		PlacedAt:     order.PlacedAt,
	}
	if err := s.publisher.Publish(ctx, TopicOrderPlaced, evt); err != nil {
		log.Error().Err(err).Str("orderId", order.ID).Msg("failed to publish order.placed")
	}
}

func (s *OrderService) publishOrderDisposed(ctx context.Context, order *domain.Order) {
	evt := domain.OrderDisposedEvent{
		OrderID:    order.ID,
		SellerID:   order.SellerID,
		Status:     order.Status,
		DisposedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, TopicOrderDisposed, evt); err != nil {
		log.Error().Err(err).Str("orderId", order.ID).Msg("failed to publish order.disposed")
	}
}
