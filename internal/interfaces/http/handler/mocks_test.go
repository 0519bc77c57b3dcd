package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/checkout"
	"github.com/stretchr/testify/mock"
)

type MockCartUseCases struct {
	mock.Mock
}

func (m *MockCartUseCases) CreateCart(ctx context.Context) (*checkout.CartResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.CartResponse), args.Error(1)
}

func (m *MockCartUseCases) GetCart(ctx context.Context, cartID uuid.UUID) (*checkout.CartResponse, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.CartResponse), args.Error(1)
}

func (m *MockCartUseCases) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *MockCartUseCases) AddItem(ctx context.Context, cartID uuid.UUID, req checkout.AddItemRequest) (*checkout.CartLineResponse, error) {
	args := m.Called(ctx, cartID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.CartLineResponse), args.Error(1)
}

func (m *MockCartUseCases) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, req checkout.UpdateItemQuantityRequest) (*checkout.CartLineResponse, error) {
	args := m.Called(ctx, cartID, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.CartLineResponse), args.Error(1)
}

func (m *MockCartUseCases) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	return m.Called(ctx, cartID, productID).Error(0)
}

type MockCheckoutUseCases struct {
	mock.Mock
}

func (m *MockCheckoutUseCases) PlaceOrderForUser(ctx context.Context, userID uuid.UUID, req checkout.PlaceOrderRequest) (*checkout.OrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.OrderResponse), args.Error(1)
}

type MockOrderUseCases struct {
	mock.Mock
}

func (m *MockOrderUseCases) GetOrder(ctx context.Context, orderID uuid.UUID) (*checkout.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.OrderResponse), args.Error(1)
}

func (m *MockOrderUseCases) GetOrderForUser(ctx context.Context, userID, orderID uuid.UUID) (*checkout.OrderResponse, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.OrderResponse), args.Error(1)
}

func (m *MockOrderUseCases) ListOrders(ctx context.Context, filter checkout.OrderListFilter) ([]checkout.OrderResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]checkout.OrderResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderUseCases) ListOrdersForUser(ctx context.Context, userID uuid.UUID, filter checkout.OrderListFilter) ([]checkout.OrderResponse, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]checkout.OrderResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderUseCases) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, req checkout.UpdateOrderStatusRequest) (*checkout.OrderResponse, error) {
	args := m.Called(ctx, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.OrderResponse), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
