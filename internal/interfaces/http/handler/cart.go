package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartUseCases is the cart surface the HTTP layer needs
type CartUseCases interface {
	CreateCart(ctx context.Context) (*checkout.CartResponse, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*checkout.CartResponse, error)
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	AddItem(ctx context.Context, cartID uuid.UUID, req checkout.AddItemRequest) (*checkout.CartLineResponse, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, req checkout.UpdateItemQuantityRequest) (*checkout.CartLineResponse, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
}

var _ CartUseCases = (*checkout.CartService)(nil)

// CartHandler handles anonymous cart endpoints
type CartHandler struct {
	BaseHandler
	carts CartUseCases
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts CartUseCases) *CartHandler {
	return &CartHandler{carts: carts}
}

// Create opens a new empty cart
// POST /carts
func (h *CartHandler) Create(c *gin.Context) {
	cart, err := h.carts.CreateCart(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cart)
}

// Get returns a cart with current display prices
// GET /carts/:id
func (h *CartHandler) Get(c *gin.Context) {
	cartID, ok := h.parseUUIDParam(c, "id", "cart")
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(c.Request.Context(), cartID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Delete removes a cart and its lines
// DELETE /carts/:id
func (h *CartHandler) Delete(c *gin.Context) {
	cartID, ok := h.parseUUIDParam(c, "id", "cart")
	if !ok {
		return
	}

	if err := h.carts.DeleteCart(c.Request.Context(), cartID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddItem merges a product into the cart
// POST /carts/:id/items
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID, ok := h.parseUUIDParam(c, "id", "cart")
	if !ok {
		return
	}

	var req checkout.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	line, err := h.carts.AddItem(c.Request.Context(), cartID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, line)
}

// UpdateItem replaces the quantity of an existing line
// PATCH /carts/:id/items/:product_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	cartID, ok := h.parseUUIDParam(c, "id", "cart")
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "product_id", "product")
	if !ok {
		return
	}

	var req checkout.UpdateItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	line, err := h.carts.UpdateItemQuantity(c.Request.Context(), cartID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// RemoveItem drops a product's line from the cart
// DELETE /carts/:id/items/:product_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID, ok := h.parseUUIDParam(c, "id", "cart")
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "product_id", "product")
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(c.Request.Context(), cartID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
