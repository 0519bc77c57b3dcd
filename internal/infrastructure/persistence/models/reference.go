package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel maps the catalog-owned products table. Checkout only reads it.
type ProductModel struct {
	BaseModel
	Name      string          `gorm:"type:varchar(255);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Inventory int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a catalog Product
func (m *ProductModel) ToDomain() catalog.Product {
	return catalog.Product{
		ID:        m.ID,
		Name:      m.Name,
		UnitPrice: m.UnitPrice,
		Inventory: m.Inventory,
	}
}

// CustomerModel maps the identity-owned customers table. Checkout only reads it.
type CustomerModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_customers_user"`
	FirstName string    `gorm:"type:varchar(100)"`
	LastName  string    `gorm:"type:varchar(100)"`
	Email     string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// AllModels lists every model owned or read by this service, in dependency order
func AllModels() []interface{} {
	return []interface{}{
		&ProductModel{},
		&CustomerModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
