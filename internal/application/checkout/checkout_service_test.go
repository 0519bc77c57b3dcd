package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type checkoutFixture struct {
	carts     *MockCartRepository
	orders    *MockOrderRepository
	prices    *MockProductReader
	customers *MockCustomerResolver
	publisher *MockEventPublisher
	scope     *fakeTxScope
	cache     *recordingCache
	service   *CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	f := &checkoutFixture{
		carts:     new(MockCartRepository),
		orders:    new(MockOrderRepository),
		prices:    new(MockProductReader),
		customers: new(MockCustomerResolver),
		publisher: new(MockEventPublisher),
		cache:     newRecordingCache(),
	}
	f.scope = newFakeTxScope(f.carts, f.orders, f.prices)
	f.service = NewCheckoutService(f.scope, f.customers, f.cache, zaptest.NewLogger(t))
	f.service.SetEventPublisher(f.publisher)
	return f
}

func cartWith(lines map[uuid.UUID]int) *cart.Cart {
	c := cart.NewCart()
	for productID, qty := range lines {
		addLine(c, productID, qty)
	}
	return c
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	customerID := uuid.New()

	t.Run("freezes current prices and deletes the cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		c := cartWith(map[uuid.UUID]int{p1: 2, p2: 1})

		f.carts.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil)
		f.prices.On("GetUnitPrice", mock.Anything, p1).Return(decimal.RequireFromString("10.00"), nil)
		f.prices.On("GetUnitPrice", mock.Anything, p2).Return(decimal.RequireFromString("5.00"), nil)
		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
		f.carts.On("Delete", mock.Anything, c.ID).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		result, err := f.service.PlaceOrder(context.Background(), c.ID, customerID)

		require.NoError(t, err)
		assert.Equal(t, "unpaid", result.Status)
		assert.Equal(t, customerID, result.CustomerID)
		require.Len(t, result.Items, 2)

		prices := map[uuid.UUID]decimal.Decimal{}
		quantities := map[uuid.UUID]int{}
		for _, item := range result.Items {
			prices[item.ProductID] = item.UnitPrice
			quantities[item.ProductID] = item.Quantity
		}
		assert.True(t, prices[p1].Equal(decimal.RequireFromString("10.00")))
		assert.True(t, prices[p2].Equal(decimal.RequireFromString("5.00")))
		assert.Equal(t, 2, quantities[p1])
		assert.Equal(t, 1, quantities[p2])
		assert.True(t, result.Total.Equal(decimal.RequireFromString("25.00")))

		f.carts.AssertCalled(t, "Delete", mock.Anything, c.ID)
		assert.Equal(t, []uuid.UUID{c.ID}, f.cache.tombstoned)

		created := f.orders.Calls[0].Arguments.Get(1).(*order.Order)
		assert.Equal(t, result.ID, created.ID)
		assert.Empty(t, created.GetDomainEvents())

		events := f.publisher.Calls[0].Arguments.Get(1).([]shared.DomainEvent)
		require.Len(t, events, 1)
		assert.Equal(t, order.EventTypeOrderPlaced, events[0].EventType())
	})

	t.Run("empty cart is rejected and left alone", func(t *testing.T) {
		f := newCheckoutFixture(t)
		c := cart.NewCart()
		f.carts.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil)

		_, err := f.service.PlaceOrder(context.Background(), c.ID, customerID)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidation))
		assert.Equal(t, "cart is empty", err.Error())
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		assert.Empty(t, f.cache.tombstoned)
	})

	t.Run("missing cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		missing := uuid.New()
		f.carts.On("FindByIDForUpdate", mock.Anything, missing).Return(nil, shared.ErrNotFound)

		_, err := f.service.PlaceOrder(context.Background(), missing, customerID)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Equal(t, "no cart with this id", err.Error())
	})

	t.Run("order insert failure aborts before the cart is deleted", func(t *testing.T) {
		f := newCheckoutFixture(t)
		c := cartWith(map[uuid.UUID]int{p1: 1})
		f.carts.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil)
		f.prices.On("GetUnitPrice", mock.Anything, p1).Return(decimal.NewFromInt(7), nil)
		f.orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := f.service.PlaceOrder(context.Background(), c.ID, customerID)

		require.Error(t, err)
		assert.Equal(t, shared.CodeInternal, shared.ErrorCode(err))
		assert.Equal(t, 1, f.scope.failed)
		f.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("cart delete failure aborts the unit", func(t *testing.T) {
		f := newCheckoutFixture(t)
		c := cartWith(map[uuid.UUID]int{p1: 1})
		f.carts.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil)
		f.prices.On("GetUnitPrice", mock.Anything, p1).Return(decimal.NewFromInt(7), nil)
		f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.carts.On("Delete", mock.Anything, c.ID).Return(errors.New("lock timeout"))

		_, err := f.service.PlaceOrder(context.Background(), c.ID, customerID)

		require.Error(t, err)
		assert.Equal(t, 1, f.scope.failed)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		assert.Empty(t, f.cache.tombstoned)
	})

	t.Run("vanished product is an invalid reference", func(t *testing.T) {
		f := newCheckoutFixture(t)
		c := cartWith(map[uuid.UUID]int{p1: 1})
		f.carts.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil)
		f.prices.On("GetUnitPrice", mock.Anything, p1).Return(decimal.Zero, shared.ErrNotFound)

		_, err := f.service.PlaceOrder(context.Background(), c.ID, customerID)

		assert.True(t, errors.Is(err, shared.ErrInvalidReference))
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail a committed order", func(t *testing.T) {
		f := newCheckoutFixture(t)
		c := cartWith(map[uuid.UUID]int{p1: 1})
		f.carts.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil)
		f.prices.On("GetUnitPrice", mock.Anything, p1).Return(decimal.NewFromInt(7), nil)
		f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.carts.On("Delete", mock.Anything, c.ID).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus stopped"))

		result, err := f.service.PlaceOrder(context.Background(), c.ID, customerID)

		require.NoError(t, err)
		assert.NotNil(t, result)
	})
}

func TestCheckoutService_PlaceOrderForUser(t *testing.T) {
	userID := uuid.New()

	t.Run("unknown customer", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.customers.On("ResolveCustomer", mock.Anything, userID).Return(uuid.Nil, shared.ErrNotFound)

		_, err := f.service.PlaceOrderForUser(context.Background(), userID, PlaceOrderRequest{CartID: uuid.New()})

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Zero(t, f.scope.executed)
	})

	t.Run("attaches the resolved customer", func(t *testing.T) {
		f := newCheckoutFixture(t)
		customerID := uuid.New()
		p := uuid.New()
		c := cartWith(map[uuid.UUID]int{p: 4})

		f.customers.On("ResolveCustomer", mock.Anything, userID).Return(customerID, nil)
		f.carts.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil)
		f.prices.On("GetUnitPrice", mock.Anything, p).Return(decimal.RequireFromString("2.50"), nil)
		f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.carts.On("Delete", mock.Anything, c.ID).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		result, err := f.service.PlaceOrderForUser(context.Background(), userID, PlaceOrderRequest{CartID: c.ID})

		require.NoError(t, err)
		assert.Equal(t, customerID, result.CustomerID)
		assert.True(t, result.Total.Equal(decimal.NewFromInt(10)))
	})
}
