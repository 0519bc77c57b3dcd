package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CheckoutUseCases converts carts into orders
type CheckoutUseCases interface {
	PlaceOrderForUser(ctx context.Context, userID uuid.UUID, req checkout.PlaceOrderRequest) (*checkout.OrderResponse, error)
}

// OrderUseCases reads orders and changes their status
type OrderUseCases interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*checkout.OrderResponse, error)
	GetOrderForUser(ctx context.Context, userID, orderID uuid.UUID) (*checkout.OrderResponse, error)
	ListOrders(ctx context.Context, filter checkout.OrderListFilter) ([]checkout.OrderResponse, int64, error)
	ListOrdersForUser(ctx context.Context, userID uuid.UUID, filter checkout.OrderListFilter) ([]checkout.OrderResponse, int64, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, req checkout.UpdateOrderStatusRequest) (*checkout.OrderResponse, error)
}

var (
	_ CheckoutUseCases = (*checkout.CheckoutService)(nil)
	_ OrderUseCases    = (*checkout.OrderService)(nil)
)

// OrderHandler handles checkout and order endpoints. Every route requires a
// bearer token; staff tokens carrying order:read_all see all orders.
type OrderHandler struct {
	BaseHandler
	checkout CheckoutUseCases
	orders   OrderUseCases
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService CheckoutUseCases, orders OrderUseCases) *OrderHandler {
	return &OrderHandler{
		checkout: checkoutService,
		orders:   orders,
	}
}

// Place checks out a cart for the authenticated customer
// POST /orders
func (h *OrderHandler) Place(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	order, err := h.checkout.PlaceOrderForUser(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List returns the caller's orders, or every order for staff
// GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter checkout.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	var (
		orders []checkout.OrderResponse
		total  int64
	)
	if middleware.HasPermission(c, auth.PermissionOrderReadAll) {
		orders, total, err = h.orders.ListOrders(c.Request.Context(), filter)
	} else {
		orders, total, err = h.orders.ListOrdersForUser(c.Request.Context(), userID, filter)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Paging()
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Get returns one order. Customers only see their own orders.
// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	orderID, ok := h.parseUUIDParam(c, "id", "order")
	if !ok {
		return
	}

	var order *checkout.OrderResponse
	if middleware.HasPermission(c, auth.PermissionOrderReadAll) {
		order, err = h.orders.GetOrder(c.Request.Context(), orderID)
	} else {
		order, err = h.orders.GetOrderForUser(c.Request.Context(), userID, orderID)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus moves an order to a new status (staff only, enforced by the router)
// PATCH /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.parseUUIDParam(c, "id", "order")
	if !ok {
		return
	}

	var req checkout.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
