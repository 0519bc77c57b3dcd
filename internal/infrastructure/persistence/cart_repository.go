package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Create persists a new cart. Lines already on the cart are inserted with it.
func (r *GormCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	model := models.CartModelFromDomain(c)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID loads a cart with its lines in insertion order
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	return r.find(ctx, id, false)
}

// FindByIDForUpdate loads a cart with its lines and holds SELECT ... FOR UPDATE on the cart row
func (r *GormCartRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	return r.find(ctx, id, true)
}

func (r *GormCartRepository) find(ctx context.Context, id uuid.UUID, forUpdate bool) (*cart.Cart, error) {
	db := r.db.WithContext(ctx)
	query := db
	if forUpdate {
		query = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.CartModel
	if err := query.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	// Only the cart row is locked; lines are guarded by that lock.
	if err := db.
		Where("cart_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// LockByID locks the cart row for the rest of the transaction
func (r *GormCartRepository) LockByID(ctx context.Context, id uuid.UUID) error {
	var model models.CartModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

// MergeItem upserts the (cart, product) line. On conflict the stored quantity is
// incremented by the database, so concurrent merges never lose an update.
// The increment only applies while the merged total stays within cart.MaxQuantity.
func (r *GormCartRepository) MergeItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*cart.CartItem, error) {
	item, err := cart.NewCartItem(cartID, productID, quantity)
	if err != nil {
		return nil, err
	}
	model := models.CartItemModelFromDomain(item)

	db := r.db.WithContext(ctx)
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": item.UpdatedAt,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("cart_items.quantity <= ? - excluded.quantity", cart.MaxQuantity),
		}},
	}).Create(model)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, r.rejectedMerge(db, cartID, productID, quantity)
	}

	return r.findItem(db, cartID, productID)
}

// rejectedMerge explains an upsert the quantity guard skipped
func (r *GormCartRepository) rejectedMerge(db *gorm.DB, cartID, productID uuid.UUID, quantity int) error {
	existing, err := r.findItem(db, cartID, productID)
	if err != nil {
		return err
	}
	if _, err := cart.MergeQuantity(existing.Quantity, quantity); err != nil {
		return err
	}
	return shared.NewValidationError("quantity could not be merged")
}

// SetItemQuantity replaces the quantity of an existing line
func (r *GormCartRepository) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*cart.CartItem, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.CartItemModel{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError("cart has no line for this product")
	}
	return r.findItem(db, cartID, productID)
}

// RemoveItem deletes the (cart, product) line
func (r *GormCartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("cart has no line for this product")
	}
	return nil
}

// Delete removes the cart's lines and then the cart itself
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("cart_id = ?", id).Delete(&models.CartItemModel{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&models.CartModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCartRepository) findItem(db *gorm.DB, cartID, productID uuid.UUID) (*cart.CartItem, error) {
	var model models.CartItemModel
	if err := db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormCartRepository implements CartRepository
var _ cart.CartRepository = (*GormCartRepository)(nil)
