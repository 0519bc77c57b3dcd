package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
)

// CartModel is the persistence model for the carts table
type CartModel struct {
	BaseModel
	Items []CartItemModel `gorm:"foreignKey:CartID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is the persistence model for the cart_items table.
// The (cart_id, product_id) unique index backs the merge upsert.
type CartItemModel struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2;index:idx_cart_items_product"`
	Quantity  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the model to a domain CartItem
func (m *CartItemModel) ToDomain() *cart.CartItem {
	return &cart.CartItem{
		ID:        m.ID,
		CartID:    m.CartID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CartItemModelFromDomain creates a persistence model from a domain CartItem
func CartItemModelFromDomain(item *cart.CartItem) *CartItemModel {
	return &CartItemModel{
		BaseModel: BaseModel{
			ID:        item.ID,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		},
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
}

// ToDomain converts the model and its loaded items to a domain Cart
func (m *CartModel) ToDomain() *cart.Cart {
	c := &cart.Cart{
		BaseEntity: m.BaseModel.ToDomain(),
		Items:      make([]cart.CartItem, len(m.Items)),
	}
	for i := range m.Items {
		c.Items[i] = *m.Items[i].ToDomain()
	}
	return c
}

// CartModelFromDomain creates a persistence model from a domain Cart
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{
		Items: make([]CartItemModel, len(c.Items)),
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	for i := range c.Items {
		m.Items[i] = *CartItemModelFromDomain(&c.Items[i])
	}
	return m
}
