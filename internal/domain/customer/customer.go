// Package customer holds the identity collaborator used to attach orders to customers.
package customer

import (
	"context"

	"github.com/google/uuid"
)

// Resolver maps an authenticated user to the customer record that owns orders.
// It fails with a NOT_FOUND domain error when no customer exists for the user.
type Resolver interface {
	ResolveCustomer(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}
