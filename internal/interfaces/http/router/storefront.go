package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the HTTP surface is built from
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	Carts       handler.CartUseCases
	Checkout    handler.CheckoutUseCases
	Orders      handler.OrderUseCases
	Health      handler.Pinger
	JWT         *auth.JWTService
	Revocations auth.RevocationList
	// Meter enables HTTP metrics when set
	Meter metric.Meter
}

// NewEngine builds the gin engine with the global middleware chain and the
// storefront routes:
//
//	GET    /health
//	POST   /api/v1/carts
//	GET    /api/v1/carts/:id
//	DELETE /api/v1/carts/:id
//	POST   /api/v1/carts/:id/items
//	PATCH  /api/v1/carts/:id/items/:product_id
//	DELETE /api/v1/carts/:id/items/:product_id
//	POST   /api/v1/orders                    (JWT)
//	GET    /api/v1/orders                    (JWT)
//	GET    /api/v1/orders/:id                (JWT)
//	PATCH  /api/v1/orders/:id/status         (JWT + order:update_status)
func NewEngine(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, err
		}
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(cfg.Telemetry.ServiceName),
		middleware.SpanAttributes(),
		logger.GinMiddleware(log),
	)
	if deps.Meter != nil {
		httpMetrics, err := middleware.HTTPMetrics(deps.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(httpMetrics)
	}

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.App.Env == "production"
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(
		middleware.SecureWithConfig(securityCfg),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", handler.NewHealthHandler(deps.Health).Check)

	requireAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:  deps.JWT,
		Revocations: deps.Revocations,
		Logger:      log,
	})

	carts := handler.NewCartHandler(deps.Carts)
	orders := handler.NewOrderHandler(deps.Checkout, deps.Orders)

	NewRouter(engine).
		Register(NewDomainGroup("carts", "/carts").
			POST("", carts.Create).
			GET("/:id", carts.Get).
			DELETE("/:id", carts.Delete).
			POST("/:id/items", carts.AddItem).
			PATCH("/:id/items/:product_id", carts.UpdateItem).
			DELETE("/:id/items/:product_id", carts.RemoveItem)).
		Register(NewDomainGroup("orders", "/orders").
			Use(requireAuth).
			POST("", orders.Place).
			GET("", orders.List).
			GET("/:id", orders.Get).
			PATCH("/:id/status", middleware.RequirePermission(auth.PermissionOrderUpdateStatus), orders.UpdateStatus)).
		Setup()

	return engine, nil
}
