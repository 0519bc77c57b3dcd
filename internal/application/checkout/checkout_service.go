package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CheckoutService converts carts into orders
type CheckoutService struct {
	txScope        TransactionScope
	customers      customer.Resolver
	cache          CartCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(txScope TransactionScope, customers customer.Resolver, cache CartCache, logger *zap.Logger) *CheckoutService {
	if cache == nil {
		cache = NoOpCartCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		txScope:   txScope,
		customers: customers,
		cache:     cache,
		logger:    logger,
	}
}

// SetEventPublisher sets the publisher notified after an order commits
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PlaceOrderForUser resolves the customer behind userID and checks out the cart for them
func (s *CheckoutService) PlaceOrderForUser(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	customerID, err := s.customers.ResolveCustomer(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("no customer for this user")
		}
		return nil, err
	}
	return s.PlaceOrder(ctx, req.CartID, customerID)
}

// PlaceOrder converts the cart into an unpaid order for customerID.
//
// The emptiness check, the price snapshot, the order and line inserts and the
// cart deletion all run in one transaction that holds the cart row lock. A
// duplicate call racing on the same cart waits for the lock and then finds the
// cart gone.
func (s *CheckoutService) PlaceOrder(ctx context.Context, cartID, customerID uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order",
		telemetry.WithAttribute(telemetry.SpanAttrCartID, cartID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, customerID.String()),
	)
	defer span.End()

	var placed *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.Carts().FindByIDForUpdate(ctx, cartID)
		if err != nil {
			return cartLookupError(err)
		}
		if c.IsEmpty() {
			return shared.NewValidationError("cart is empty")
		}

		lines := make([]order.Line, 0, len(c.Items))
		for _, item := range c.Items {
			price, err := repos.Prices().GetUnitPrice(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewInvalidReferenceError(fmt.Sprintf("product %s no longer exists", item.ProductID))
				}
				return fmt.Errorf("reading price of product %s: %w", item.ProductID, err)
			}
			lines = append(lines, order.Line{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: price,
			})
		}

		o, err := order.NewOrder(customerID, lines)
		if err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, o); err != nil {
			return err
		}
		if err := repos.Carts().Delete(ctx, c.ID); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrOrderID, placed.ID.String())
	if err := s.cache.Tombstone(ctx, cartID); err != nil {
		s.logger.Warn("cart cache tombstone failed", zap.String("cart_id", cartID.String()), zap.Error(err))
	}
	s.publish(ctx, placed)

	response := ToOrderResponse(placed)
	return &response, nil
}

// publish hands pending events to the publisher. The order is already committed,
// so failures are logged and never returned.
func (s *CheckoutService) publish(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
}
