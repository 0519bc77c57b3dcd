package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService handles order queries and status updates
type OrderService struct {
	orderRepo      order.OrderRepository
	customers      customer.Resolver
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.OrderRepository, customers customer.Resolver, txScope TransactionScope, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		customers: customers,
		txScope:   txScope,
		logger:    logger,
	}
}

// SetEventPublisher sets the publisher notified after a status change commits
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetOrder retrieves any order by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, orderLookupError(err)
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetOrderForUser retrieves an order owned by the customer behind userID.
// Orders of other customers are reported as not found.
func (s *OrderService) GetOrderForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	customerID, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, orderLookupError(err)
	}
	if !o.BelongsTo(customerID) {
		return nil, shared.NewNotFoundError("no order with this id")
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// ListOrdersForCustomer lists a customer's orders, newest first
func (s *OrderService) ListOrdersForCustomer(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindByCustomer(ctx, customerID, toDomainFilter(filter))
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// ListOrdersForUser lists the orders of the customer behind userID
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	customerID, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.ListOrdersForCustomer(ctx, customerID, filter)
}

// ListOrders lists every order, newest first
func (s *OrderService) ListOrders(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, toDomainFilter(filter))
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// UpdateOrderStatus moves an order to status. Only membership in the fixed
// status set is enforced; an invalid value leaves the order untouched.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	status, err := order.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var updated *order.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return orderLookupError(err)
		}
		if err := o.UpdateStatus(status); err != nil {
			return err
		}
		if err := repos.Orders().UpdateStatus(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	events := updated.GetDomainEvents()
	updated.ClearDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish order status events",
				zap.String("order_id", updated.ID.String()),
				zap.Error(err),
			)
		}
	}

	response := ToOrderResponse(updated)
	return &response, nil
}

func (s *OrderService) resolve(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	customerID, err := s.customers.ResolveCustomer(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.NewNotFoundError("no customer for this user")
		}
		return uuid.Nil, err
	}
	return customerID, nil
}

func toDomainFilter(filter OrderListFilter) shared.Filter {
	return shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: strings.ToLower(filter.OrderDir),
	}.Normalize()
}

func orderLookupError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("no order with this id")
	}
	return err
}
