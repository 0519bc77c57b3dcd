package checkout

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
)

// TransactionScope runs a unit of work inside one database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current transaction.
// Every read made through them, price lookups included, sees the transaction's view.
type TransactionalRepositories interface {
	// Carts returns the cart repository scoped to the current transaction
	Carts() cart.CartRepository
	// Orders returns the order repository scoped to the current transaction
	Orders() order.OrderRepository
	// Prices returns the price oracle scoped to the current transaction
	Prices() catalog.PriceOracle
}
