package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
)

// ==================== Cart DTOs ====================

// AddItemRequest represents a request to add a product to a cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0,lte=2147483647"`
}

// UpdateItemQuantityRequest represents a request to replace a line quantity
type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0,lte=2147483647"`
}

// CartProductResponse is the product summary shown on a cart line
type CartProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CartItemResponse represents a cart line with its display price
type CartItemResponse struct {
	ID         uuid.UUID           `json:"id"`
	Product    CartProductResponse `json:"product"`
	Quantity   int                 `json:"quantity"`
	TotalPrice decimal.Decimal     `json:"total_price"`
}

// CartResponse represents a cart with its lines
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	CreatedAt  time.Time          `json:"created_at"`
}

// CartLineResponse is the result of a merge or quantity update
type CartLineResponse struct {
	ID        uuid.UUID `json:"id"`
	CartID    uuid.UUID `json:"cart_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// ToCartResponse renders a cart using the given product view.
// Lines whose product is missing from products are shown with a zero price.
func ToCartResponse(c *cart.Cart, products map[uuid.UUID]catalog.Product) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	total := decimal.Zero
	for _, item := range c.Items {
		product := products[item.ProductID]
		lineTotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, CartItemResponse{
			ID: item.ID,
			Product: CartProductResponse{
				ID:        item.ProductID,
				Name:      product.Name,
				UnitPrice: product.UnitPrice,
			},
			Quantity:   item.Quantity,
			TotalPrice: lineTotal,
		})
	}

	return CartResponse{
		ID:         c.ID,
		Items:      items,
		TotalPrice: total,
		CreatedAt:  c.CreatedAt,
	}
}

// ToCartLineResponse converts a cart line to its response DTO
func ToCartLineResponse(item *cart.CartItem) CartLineResponse {
	return CartLineResponse{
		ID:        item.ID,
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
}

// ==================== Order DTOs ====================

// PlaceOrderRequest represents a checkout request
type PlaceOrderRequest struct {
	CartID uuid.UUID `json:"cart_id" binding:"required"`
}

// UpdateOrderStatusRequest represents a request to change an order status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderListFilter holds paging and sort options for order listings
type OrderListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// Paging returns the page and page size a listing actually uses
func (f OrderListFilter) Paging() (page, pageSize int) {
	n := toDomainFilter(f)
	return n.Page, n.PageSize
}

// OrderItemResponse represents an order line with its frozen price
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order with its lines
type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	CustomerID uuid.UUID           `json:"customer_id"`
	Status     string              `json:"status"`
	Items      []OrderItemResponse `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to its response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		}
	}

	return OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status.String(),
		Items:      items,
		Total:      o.Total(),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
