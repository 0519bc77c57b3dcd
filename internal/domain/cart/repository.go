package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the persistence contract for carts and their lines.
// Implementations bound to a transaction must honour the row locks described
// on each method for the lifetime of that transaction.
type CartRepository interface {
	// Create persists a new, empty cart
	Create(ctx context.Context, cart *Cart) error

	// FindByID loads a cart with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindByIDForUpdate loads a cart with its lines and locks the cart row
	// until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Cart, error)

	// LockByID locks the cart row without loading its lines
	LockByID(ctx context.Context, id uuid.UUID) error

	// MergeItem adds quantity to the (cart, product) line, creating it when absent,
	// as one atomic statement. It returns the line after the merge.
	MergeItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*CartItem, error)

	// SetItemQuantity replaces the quantity of an existing line
	SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*CartItem, error)

	// RemoveItem deletes the (cart, product) line
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error

	// Delete removes the cart and all of its lines
	Delete(ctx context.Context, id uuid.UUID) error
}
