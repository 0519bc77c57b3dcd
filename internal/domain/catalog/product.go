// Package catalog describes the slice of the product catalog that checkout reads.
// Products are owned by the catalog subsystem and are never written here.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the read-only product view used for cart display
type Product struct {
	ID        uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Inventory int
}

// PriceOracle returns the current unit price of a product.
// It fails with a NOT_FOUND domain error for unknown products.
type PriceOracle interface {
	GetUnitPrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}

// ProductReader extends PriceOracle with batch lookups for display
type ProductReader interface {
	PriceOracle

	// FindByIDs returns the products found for ids, keyed by id. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Product, error)
}
