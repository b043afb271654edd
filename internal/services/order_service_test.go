package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderService_PlaceOrder(t *testing.T) {
	tests := []struct {
		name          string
		buyerID       string
		productID     string
		fulfillment   domain.Fulfillment
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockProductRepository, *mocks.MockIdentityProvider, *mocks.MockPublisher)
		expectedError error
		noWrites      bool
	}{
		{
			name:        "successful order placement",
			buyerID:     TestBuyerID,
			productID:   TestProductID,
			fulfillment: ValidFulfillment(),
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, idp *mocks.MockIdentityProvider, pub *mocks.MockPublisher) {
				productRepo.On("FindByID", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, TestSellerID, decimal.NewFromFloat(9.99)), nil)
				idp.On("Lookup", mock.Anything, TestBuyerID).Return(CreateMockBuyer(TestBuyerID, "Alice"), nil)
				orderRepo.On("CreateWithQueueEntry", mock.Anything, mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("*domain.OrderQueueEntry")).Return(nil)
				pub.On("Publish", mock.Anything, TopicOrderPlaced, mock.Anything).Return(nil).Maybe()
			},
		},
		{
			name:        "empty fulfillment name fails with no writes",
			buyerID:     TestBuyerID,
			productID:   TestProductID,
			fulfillment: domain.Fulfillment{Name: "", Address: "1 Main St", Phone: "555-0100"},
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, idp *mocks.MockIdentityProvider, pub *mocks.MockPublisher) {
			},
			expectedError: domain.ErrValidation,
			noWrites:      true,
		},
		{
			name:        "empty phone fails with no writes",
			buyerID:     TestBuyerID,
			productID:   TestProductID,
			fulfillment: domain.Fulfillment{Name: "Alice", Address: "1 Main St", Phone: ""},
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, idp *mocks.MockIdentityProvider, pub *mocks.MockPublisher) {
			},
			expectedError: domain.ErrValidation,
			noWrites:      true,
		},
		{
			name:        "no authenticated buyer",
			buyerID:     "",
			productID:   TestProductID,
			fulfillment: ValidFulfillment(),
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, idp *mocks.MockIdentityProvider, pub *mocks.MockPublisher) {
			},
			expectedError: domain.ErrAuthRequired,
			noWrites:      true,
		},
		{
			name:        "product not found",
			buyerID:     TestBuyerID,
			productID:   "missing",
			fulfillment: ValidFulfillment(),
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, idp *mocks.MockIdentityProvider, pub *mocks.MockPublisher) {
				productRepo.On("FindByID", mock.Anything, "missing").Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
			noWrites:      true,
		},
		{
			name:        "product without seller is corrupt",
			buyerID:     TestBuyerID,
			productID:   TestProductID,
			fulfillment: ValidFulfillment(),
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, idp *mocks.MockIdentityProvider, pub *mocks.MockPublisher) {
				productRepo.On("FindByID", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, "", decimal.NewFromFloat(9.99)), nil)
			},
			expectedError: domain.ErrInvariant,
			noWrites:      true,
		},
		{
			name:        "unknown buyer identity",
			buyerID:     TestBuyerID,
			productID:   TestProductID,
			fulfillment: ValidFulfillment(),
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, idp *mocks.MockIdentityProvider, pub *mocks.MockPublisher) {
				productRepo.On("FindByID", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, TestSellerID, decimal.NewFromFloat(9.99)), nil)
				idp.On("Lookup", mock.Anything, TestBuyerID).Return(nil, nil)
			},
			expectedError: domain.ErrAuthRequired,
			noWrites:      true,
		},
		{
			name:        "store failure on fan-out",
			buyerID:     TestBuyerID,
			productID:   TestProductID,
			fulfillment: ValidFulfillment(),
			setupMocks: func(orderRepo *mocks.MockOrderRepository, productRepo *mocks.MockProductRepository, idp *mocks.MockIdentityProvider, pub *mocks.MockPublisher) {
				productRepo.On("FindByID", mock.Anything, TestProductID).
					Return(CreateMockProduct(TestProductID, TestSellerID, decimal.NewFromFloat(9.99)), nil)
				idp.On("Lookup", mock.Anything, TestBuyerID).Return(CreateMockBuyer(TestBuyerID, "Alice"), nil)
				orderRepo.On("CreateWithQueueEntry", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection reset"))
			},
			expectedError: domain.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(mocks.MockOrderRepository)
			productRepo := new(mocks.MockProductRepository)
			idp := new(mocks.MockIdentityProvider)
			publisher := new(mocks.MockPublisher)

			tt.setupMocks(orderRepo, productRepo, idp, publisher)

			service := NewOrderService(orderRepo, productRepo, idp, publisher)
			result, err := service.PlaceOrder(context.Background(), tt.buyerID, tt.productID, tt.fulfillment, "")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				if tt.noWrites {
					orderRepo.AssertNotCalled(t, "CreateWithQueueEntry", mock.Anything, mock.Anything, mock.Anything)
				}
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, tt.buyerID, result.BuyerID)
				assert.Equal(t, TestSellerID, result.SellerID)
				assert.Equal(t, domain.StatusPending, result.Status)
				assert.True(t, decimal.NewFromFloat(9.99).Equal(result.ProductPrice))
				assert.WithinDuration(t, time.Now(), result.PlacedAt, time.Second)
			}

			time.Sleep(50 * time.Millisecond)

			orderRepo.AssertExpectations(t)
			productRepo.AssertExpectations(t)
			idp.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

// The queue entry must reference the new order's id, be scoped to the
// product's seller and carry the buyer's display name.
func TestOrderService_PlaceOrder_FanOut(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	productRepo := new(mocks.MockProductRepository)
	idp := new(mocks.MockIdentityProvider)
	publisher := new(mocks.MockPublisher)

	productRepo.On("FindByID", mock.Anything, TestProductID).
		Return(CreateMockProduct(TestProductID, TestSellerID, decimal.NewFromFloat(9.99)), nil)
	idp.On("Lookup", mock.Anything, TestBuyerID).Return(CreateMockBuyer(TestBuyerID, "Alice"), nil)
	publisher.On("Publish", mock.Anything, TopicOrderPlaced, mock.Anything).Return(nil).Maybe()

	var captured *domain.OrderQueueEntry
	orderRepo.On("CreateWithQueueEntry", mock.Anything, mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("*domain.OrderQueueEntry")).
		Return(nil).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*domain.OrderQueueEntry)
		})

	service := NewOrderService(orderRepo, productRepo, idp, publisher)
	order, err := service.PlaceOrder(context.Background(), TestBuyerID, TestProductID, ValidFulfillment(), "")

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.NotNil(t, captured)
	assert.Equal(t, order.ID, captured.OrderID)
	assert.Equal(t, TestSellerID, captured.SellerID)
	assert.Equal(t, TestBuyerID, captured.BuyerID)
	assert.Equal(t, "Alice", captured.BuyerName)
	assert.Equal(t, domain.StatusPending, captured.Status)
	assert.True(t, order.ProductPrice.Equal(captured.ProductPrice))

	time.Sleep(50 * time.Millisecond)
	orderRepo.AssertExpectations(t)
}

// Without an idempotency key a retrying client produces a second order.
func TestOrderService_DuplicateSubmission(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	productRepo := new(mocks.MockProductRepository)
	idp := new(mocks.MockIdentityProvider)
	publisher := new(mocks.MockPublisher)

	productRepo.On("FindByID", mock.Anything, TestProductID).
		Return(CreateMockProduct(TestProductID, TestSellerID, decimal.NewFromFloat(9.99)), nil)
	idp.On("Lookup", mock.Anything, TestBuyerID).Return(CreateMockBuyer(TestBuyerID, "Alice"), nil)
	orderRepo.On("CreateWithQueueEntry", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(2)
	publisher.On("Publish", mock.Anything, TopicOrderPlaced, mock.Anything).Return(nil).Maybe()

	service := NewOrderService(orderRepo, productRepo, idp, publisher)

	first, err1 := service.PlaceOrder(context.Background(), TestBuyerID, TestProductID, ValidFulfillment(), "")
	second, err2 := service.PlaceOrder(context.Background(), TestBuyerID, TestProductID, ValidFulfillment(), "")

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.NotEqual(t, first.ID, second.ID)

	time.Sleep(50 * time.Millisecond)
	orderRepo.AssertExpectations(t)
}

// The order snapshots the product at read time; later catalog changes do
// not bleed into it.
func TestOrderService_PlaceOrder_SnapshotAtReadTime(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	productRepo := new(mocks.MockProductRepository)
	idp := new(mocks.MockIdentityProvider)
	publisher := new(mocks.MockPublisher)

	prod := CreateMockProduct(TestProductID, TestSellerID, decimal.NewFromFloat(9.99))
	productRepo.On("FindByID", mock.Anything, TestProductID).Return(prod, nil)
	idp.On("Lookup", mock.Anything, TestBuyerID).Return(CreateMockBuyer(TestBuyerID, "Alice"), nil)
	orderRepo.On("CreateWithQueueEntry", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, TopicOrderPlaced, mock.Anything).Return(nil).Maybe()

	service := NewOrderService(orderRepo, productRepo, idp, publisher)
	order, err := service.PlaceOrder(context.Background(), TestBuyerID, TestProductID, ValidFulfillment(), "")
	assert.NoError(t, err)

	prod.Price = decimal.NewFromFloat(19.99)
	prod.Name = "Deluxe Pizza"

	assert.True(t, decimal.NewFromFloat(9.99).Equal(order.ProductPrice))
	assert.Equal(t, "Pizza", order.ProductName)

	time.Sleep(50 * time.Millisecond)
}

func TestOrderService_DisposeOrder(t *testing.T) {
	tests := []struct {
		name           string
		sellerID       string
		orderID        string
		target         domain.OrderStatus
		setupMocks     func(*mocks.MockOrderRepository, *mocks.MockPublisher)
		expectedError  error
		noTransition   bool
		expectedStatus domain.OrderStatus
	}{
		{
			name:     "accept pending order",
			sellerID: TestSellerID,
			orderID:  TestOrderID,
			target:   domain.StatusAccepted,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				orderRepo.On("FindByID", mock.Anything, TestOrderID).
					Return(CreateMockOrder(TestOrderID, TestBuyerID, TestSellerID, domain.StatusPending), nil)
				orderRepo.On("TransitionStatus", mock.Anything, TestOrderID, domain.StatusPending, domain.StatusAccepted).Return(true, nil)
				pub.On("Publish", mock.Anything, TopicOrderDisposed, mock.Anything).Return(nil).Maybe()
			},
			expectedStatus: domain.StatusAccepted,
		},
		{
			name:     "reject pending order",
			sellerID: TestSellerID,
			orderID:  TestOrderID,
			target:   domain.StatusRejected,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				orderRepo.On("FindByID", mock.Anything, TestOrderID).
					Return(CreateMockOrder(TestOrderID, TestBuyerID, TestSellerID, domain.StatusPending), nil)
				orderRepo.On("TransitionStatus", mock.Anything, TestOrderID, domain.StatusPending, domain.StatusRejected).Return(true, nil)
				pub.On("Publish", mock.Anything, TopicOrderDisposed, mock.Anything).Return(nil).Maybe()
			},
			expectedStatus: domain.StatusRejected,
		},
		{
			name:     "pending is not a valid disposition target",
			sellerID: TestSellerID,
			orderID:  TestOrderID,
			target:   domain.StatusPending,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
			},
			expectedError: domain.ErrValidation,
			noTransition:  true,
		},
		{
			name:     "order not found",
			sellerID: TestSellerID,
			orderID:  "missing",
			target:   domain.StatusAccepted,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				orderRepo.On("FindByID", mock.Anything, "missing").Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
			noTransition:  true,
		},
		{
			name:     "another seller's order looks absent",
			sellerID: "seller-2",
			orderID:  TestOrderID,
			target:   domain.StatusAccepted,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				orderRepo.On("FindByID", mock.Anything, TestOrderID).
					Return(CreateMockOrder(TestOrderID, TestBuyerID, TestSellerID, domain.StatusPending), nil)
			},
			expectedError: domain.ErrNotFound,
			noTransition:  true,
		},
		{
			name:     "terminal order can not be re-disposed",
			sellerID: TestSellerID,
			orderID:  TestOrderID,
			target:   domain.StatusRejected,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				orderRepo.On("FindByID", mock.Anything, TestOrderID).
					Return(CreateMockOrder(TestOrderID, TestBuyerID, TestSellerID, domain.StatusAccepted), nil)
			},
			expectedError: domain.ErrInvalidTransition,
			noTransition:  true,
		},
		{
			name:     "lost compare-and-set race",
			sellerID: TestSellerID,
			orderID:  TestOrderID,
			target:   domain.StatusAccepted,
			setupMocks: func(orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				orderRepo.On("FindByID", mock.Anything, TestOrderID).
					Return(CreateMockOrder(TestOrderID, TestBuyerID, TestSellerID, domain.StatusPending), nil)
				orderRepo.On("TransitionStatus", mock.Anything, TestOrderID, domain.StatusPending, domain.StatusAccepted).Return(false, nil)
			},
			expectedError: domain.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(mocks.MockOrderRepository)
			productRepo := new(mocks.MockProductRepository)
			idp := new(mocks.MockIdentityProvider)
			publisher := new(mocks.MockPublisher)

			tt.setupMocks(orderRepo, publisher)

			service := NewOrderService(orderRepo, productRepo, idp, publisher)
			result, err := service.DisposeOrder(context.Background(), tt.sellerID, tt.orderID, tt.target)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				if tt.noTransition {
					orderRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				}
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, tt.expectedStatus, result.Status)
			}

			time.Sleep(50 * time.Millisecond)
			orderRepo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestOrderService_ListSellerQueue(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	productRepo := new(mocks.MockProductRepository)
	idp := new(mocks.MockIdentityProvider)
	publisher := new(mocks.MockPublisher)

	entries := []domain.OrderQueueEntry{
		{ID: "q1", OrderID: TestOrderID, SellerID: TestSellerID, Status: domain.StatusPending},
		{ID: "q2", OrderID: "order-2", SellerID: TestSellerID, Status: domain.StatusAccepted},
	}
	orderRepo.On("QueueBySeller", mock.Anything, TestSellerID).Return(entries, nil)

	service := NewOrderService(orderRepo, productRepo, idp, publisher)

	result, err := service.ListSellerQueue(context.Background(), TestSellerID)
	assert.NoError(t, err)
	assert.Len(t, result, 2)

	_, err = service.ListSellerQueue(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	orderRepo.AssertExpectations(t)
}
