package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStatus represents the payment and fulfilment state of an order
type OrderStatus string

const (
	OrderStatusUnpaid     OrderStatus = "unpaid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusComplete   OrderStatus = "complete"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// AllStatuses lists every accepted status in display order
var AllStatuses = []OrderStatus{
	OrderStatusUnpaid,
	OrderStatusProcessing,
	OrderStatusComplete,
	OrderStatusCancelled,
}

// IsValid checks if the status is one of the fixed set
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusUnpaid, OrderStatusProcessing, OrderStatusComplete, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus converts raw input into an OrderStatus
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(raw)
	if !status.IsValid() {
		return "", shared.NewValidationError(fmt.Sprintf("invalid order status %q", raw))
	}
	return status, nil
}

// OrderItem is an immutable order line with its price frozen at checkout
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// Subtotal returns Quantity * UnitPrice
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Line describes a cart line being converted, with the price read at checkout
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is the aggregate produced by checkout. Only its status changes after creation.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID
	Status     OrderStatus
	Items      []OrderItem
}

// NewOrder builds an unpaid order for customerID from the given lines.
// Quantities are copied verbatim; prices are taken as the snapshot.
func NewOrder(customerID uuid.UUID, lines []Line) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer id is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("cart is empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Status:            OrderStatusUnpaid,
		Items:             make([]OrderItem, 0, len(lines)),
	}

	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("product id is required")
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewValidationError("unit price cannot be negative")
		}
		o.Items = append(o.Items, OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			CreatedAt: o.CreatedAt,
		})
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// Total returns the sum of all line subtotals
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// BelongsTo reports whether the order is owned by customerID
func (o *Order) BelongsTo(customerID uuid.UUID) bool {
	return o.CustomerID == customerID
}

// UpdateStatus moves the order to status. Any valid status may follow any other.
func (o *Order) UpdateStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("invalid order status %q", status))
	}
	if o.Status == status {
		return nil
	}

	previous := o.Status
	o.Status = status
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))
	return nil
}
