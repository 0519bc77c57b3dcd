package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository reads the catalog's products table
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetUnitPrice returns the current price of a product
func (r *GormProductRepository) GetUnitPrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Select("id", "unit_price").
		Where("id = ?", productID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, shared.ErrNotFound
		}
		return decimal.Zero, err
	}
	return model.UnitPrice, nil
}

// FindByIDs returns the products found for ids, keyed by id
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Product, error) {
	products := make(map[uuid.UUID]catalog.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		products[rows[i].ID] = rows[i].ToDomain()
	}
	return products, nil
}

// Ensure GormProductRepository implements the catalog interfaces
var _ catalog.ProductReader = (*GormProductRepository)(nil)
