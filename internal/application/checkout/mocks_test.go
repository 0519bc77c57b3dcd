package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) LockByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartRepository) MergeItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockProductReader is a mock implementation of catalog.ProductReader
type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) GetUnitPrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockProductReader) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]catalog.Product), args.Error(1)
}

// MockCustomerResolver is a mock implementation of customer.Resolver
type MockCustomerResolver struct {
	mock.Mock
}

func (m *MockCustomerResolver) ResolveCustomer(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fakeTxScope runs the unit of work against the mocks and records the outcome
type fakeTxScope struct {
	carts    *MockCartRepository
	orders   *MockOrderRepository
	prices   *MockProductReader
	executed int
	failed   int
}

func newFakeTxScope(carts *MockCartRepository, orders *MockOrderRepository, prices *MockProductReader) *fakeTxScope {
	return &fakeTxScope{carts: carts, orders: orders, prices: prices}
}

func (s *fakeTxScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.executed++
	if err := fn(s); err != nil {
		s.failed++
		return err
	}
	return nil
}

func (s *fakeTxScope) Carts() cart.CartRepository   { return s.carts }
func (s *fakeTxScope) Orders() order.OrderRepository { return s.orders }
func (s *fakeTxScope) Prices() catalog.PriceOracle   { return s.prices }

// recordingCache is an in-memory CartCache that remembers what happened to it
type recordingCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]*CartResponse
	gone        map[uuid.UUID]bool
	invalidated []uuid.UUID
	tombstoned  []uuid.UUID
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		entries: make(map[uuid.UUID]*CartResponse),
		gone:    make(map[uuid.UUID]bool),
	}
}

func (c *recordingCache) Get(_ context.Context, cartID uuid.UUID) (*CartResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gone[cartID] {
		return nil, ErrCartGone
	}
	if entry, ok := c.entries[cartID]; ok {
		return entry, nil
	}
	return nil, ErrCacheMiss
}

func (c *recordingCache) Set(_ context.Context, cartID uuid.UUID, view *CartResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gone[cartID] {
		return nil
	}
	c.entries[cartID] = view
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, cartID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cartID)
	c.invalidated = append(c.invalidated, cartID)
	return nil
}

func (c *recordingCache) Tombstone(_ context.Context, cartID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cartID)
	c.gone[cartID] = true
	c.tombstoned = append(c.tombstoned, cartID)
	return nil
}

// addLine appends a stored line to c without going through a repository
func addLine(c *cart.Cart, productID uuid.UUID, quantity int) {
	item, err := cart.NewCartItem(c.ID, productID, quantity)
	if err != nil {
		panic(err)
	}
	c.Items = append(c.Items, *item)
}
