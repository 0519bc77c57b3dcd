package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderMetrics receives a sample for every committed checkout
type OrderMetrics interface {
	RecordOrderPlaced(ctx context.Context, itemCount int, total decimal.Decimal)
}

// OrderPlacedHandler records every committed checkout in the application log
// and, when configured, in the checkout metrics.
type OrderPlacedHandler struct {
	logger  *zap.Logger
	metrics OrderMetrics
}

// NewOrderPlacedHandler creates a new OrderPlacedHandler. metrics may be nil.
func NewOrderPlacedHandler(logger *zap.Logger, metrics OrderMetrics) *OrderPlacedHandler {
	return &OrderPlacedHandler{logger: logger, metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle logs the placed order
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderPlaced, event.EventType())
	}

	h.logger.Info("order placed",
		zap.String("order_id", placed.OrderID.String()),
		zap.String("customer_id", placed.CustomerID.String()),
		zap.Int("items_count", placed.ItemCount),
		zap.String("total", placed.Total.StringFixed(2)),
	)
	if h.metrics != nil {
		h.metrics.RecordOrderPlaced(ctx, placed.ItemCount, placed.Total)
	}
	return nil
}

var _ shared.EventHandler = (*OrderPlacedHandler)(nil)
