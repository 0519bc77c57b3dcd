package cart

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxQuantity is the largest quantity a single line can hold
const MaxQuantity = math.MaxInt32

// Cart is an anonymous, mutable collection of product selections.
// It lives until it is checked out or deleted.
type Cart struct {
	shared.BaseEntity
	Items []CartItem
}

// CartItem is a single product line in a cart.
// At most one line exists per (cart, product) pair.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCart creates an empty cart with a random identifier
func NewCart() *Cart {
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		Items:      make([]CartItem, 0),
	}
}

// NewCartItem creates a new line for productID in cartID
func NewCartItem(cartID, productID uuid.UUID, quantity int) (*CartItem, error) {
	if cartID == uuid.Nil {
		return nil, shared.NewValidationError("cart id is required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product id is required")
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	now := time.Now()
	return &CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateQuantity rejects quantities outside 1..MaxQuantity
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("quantity must be a positive integer")
	}
	if quantity > MaxQuantity {
		return shared.NewValidationError(fmt.Sprintf("quantity must not exceed %d", MaxQuantity))
	}
	return nil
}

// MergeQuantity returns the quantity of a line holding current after adding added
func MergeQuantity(current, added int) (int, error) {
	if err := ValidateQuantity(added); err != nil {
		return 0, err
	}
	if current > MaxQuantity-added {
		return 0, shared.NewValidationError(fmt.Sprintf("merged quantity must not exceed %d", MaxQuantity))
	}
	return current + added, nil
}

// IsEmpty reports whether the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ProductIDs returns the distinct product identifiers referenced by the cart
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
