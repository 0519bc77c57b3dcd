package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create inserts the order and all of its lines. Lines are written in one bulk statement.
	Create(ctx context.Context, order *Order) error

	// FindByID finds an order by ID with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate finds an order by ID and locks its row
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByCustomer lists a customer's orders with their lines
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, int64, error)

	// FindAll lists every order with its lines
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)

	// UpdateStatus persists a new status for an existing order
	UpdateStatus(ctx context.Context, order *Order) error
}
