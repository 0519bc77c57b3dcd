package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// cartLoadTimeout bounds a shared cart load once it no longer follows any caller's context
const cartLoadTimeout = 10 * time.Second

// CartService handles cart lifecycle and the item merge engine
type CartService struct {
	cartRepo cart.CartRepository
	products catalog.ProductReader
	txScope  TransactionScope
	cache    CartCache
	logger   *zap.Logger
	sfg      singleflight.Group
}

// CartServiceOption is a functional option for configuring CartService
type CartServiceOption func(*CartService)

// WithCartCache enables read-through caching of cart views
func WithCartCache(cache CartCache) CartServiceOption {
	return func(s *CartService) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithCartLogger sets the logger used for cache diagnostics
func WithCartLogger(logger *zap.Logger) CartServiceOption {
	return func(s *CartService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, products catalog.ProductReader, txScope TransactionScope, opts ...CartServiceOption) *CartService {
	s := &CartService{
		cartRepo: cartRepo,
		products: products,
		txScope:  txScope,
		cache:    NoOpCartCache{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCart creates a new empty cart
func (s *CartService) CreateCart(ctx context.Context) (*CartResponse, error) {
	c := cart.NewCart()
	if err := s.cartRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	response := ToCartResponse(c, nil)
	return &response, nil
}

// GetCart returns the cart with display prices.
// Concurrent misses for the same cart collapse into a single load. A cached view
// keeps the prices it was built with until the next cart mutation or until the
// cache TTL expires, so display prices may lag a catalog change by up to that TTL.
// Checkout always re-reads prices.
func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*CartResponse, error) {
	// The load is shared by every waiter, so it must not die with the first caller
	loadCtx := context.WithoutCancel(ctx)
	ch := s.sfg.DoChan(cartID.String(), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(loadCtx, cartLoadTimeout)
		defer cancel()
		return s.loadCart(loadCtx, cartID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*CartResponse), nil
	}
}

func (s *CartService) loadCart(ctx context.Context, cartID uuid.UUID) (*CartResponse, error) {
	cached, err := s.cache.Get(ctx, cartID)
	if err == nil {
		return cached, nil
	}
	if errors.Is(err, ErrCartGone) {
		return nil, shared.NewNotFoundError("no cart with this id")
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("cart cache read failed", zap.String("cart_id", cartID.String()), zap.Error(err))
	}

	c, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, cartLookupError(err)
	}
	products, err := s.products.FindByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("loading cart products: %w", err)
	}

	response := ToCartResponse(c, products)
	if err := s.cache.Set(ctx, cartID, &response); err != nil {
		s.logger.Warn("cart cache write failed", zap.String("cart_id", cartID.String()), zap.Error(err))
	}
	return &response, nil
}

// AddItem merges quantity of productID into the cart.
// An existing line is incremented in place; otherwise a new line is created.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, req AddItemRequest) (*CartLineResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_item",
		telemetry.WithAttribute(telemetry.SpanAttrCartID, cartID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrProductID, req.ProductID.String()),
	)
	defer span.End()

	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	var line *cart.CartItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Carts().LockByID(ctx, cartID); err != nil {
			return cartLookupError(err)
		}
		if err := ensureProduct(ctx, repos.Prices(), req.ProductID); err != nil {
			return err
		}

		merged, err := repos.Carts().MergeItem(ctx, cartID, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}
		line = merged
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.invalidate(ctx, cartID)
	response := ToCartLineResponse(line)
	return &response, nil
}

// UpdateItemQuantity replaces the quantity of an existing line
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, req UpdateItemQuantityRequest) (*CartLineResponse, error) {
	if err := cart.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	var line *cart.CartItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Carts().LockByID(ctx, cartID); err != nil {
			return cartLookupError(err)
		}
		if err := ensureProduct(ctx, repos.Prices(), productID); err != nil {
			return err
		}

		updated, err := repos.Carts().SetItemQuantity(ctx, cartID, productID, req.Quantity)
		if err != nil {
			return err
		}
		line = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cartID)
	response := ToCartLineResponse(line)
	return &response, nil
}

// RemoveItem deletes the line for productID from the cart
func (s *CartService) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Carts().LockByID(ctx, cartID); err != nil {
			return cartLookupError(err)
		}
		return repos.Carts().RemoveItem(ctx, cartID, productID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, cartID)
	return nil
}

// DeleteCart removes the cart and all of its lines
func (s *CartService) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Carts().LockByID(ctx, cartID); err != nil {
			return cartLookupError(err)
		}
		return repos.Carts().Delete(ctx, cartID)
	})
	if err != nil {
		return err
	}

	if err := s.cache.Tombstone(ctx, cartID); err != nil {
		s.logger.Warn("cart cache tombstone failed", zap.String("cart_id", cartID.String()), zap.Error(err))
	}
	return nil
}

func (s *CartService) invalidate(ctx context.Context, cartID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, cartID); err != nil {
		s.logger.Warn("cart cache invalidation failed", zap.String("cart_id", cartID.String()), zap.Error(err))
	}
}

// ensureProduct checks that productID resolves through the price oracle
func ensureProduct(ctx context.Context, prices catalog.PriceOracle, productID uuid.UUID) error {
	if _, err := prices.GetUnitPrice(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewInvalidReferenceError(fmt.Sprintf("product %s does not exist", productID))
		}
		return err
	}
	return nil
}

// cartLookupError rewrites a repository miss into the public cart error
func cartLookupError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("no cart with this id")
	}
	return err
}
