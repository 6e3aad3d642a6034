package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/ims/backend/internal/infrastructure/logger"
	"github.com/ims/backend/internal/infrastructure/telemetry"
	"github.com/ims/backend/internal/interfaces/http/handler"
	"github.com/ims/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers mounted by NewAPI
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Category     *handler.CategoryHandler
	Supplier     *handler.SupplierHandler
	Inventory    *handler.InventoryHandler
	Report       *handler.ReportHandler
	Notification *handler.NotificationHandler
	User         *handler.UserHandler
	Health       *handler.HealthHandler
}

// APIConfig is everything NewAPI needs besides the handlers
type APIConfig struct {
	HTTP           config.HTTPConfig
	Logger         *zap.Logger
	Authenticator  middleware.Authenticator
	MeterProvider  *telemetry.MeterProvider
	TracingEnabled bool
	ServiceName    string
}

// NewAPI builds the engine: the global middleware chain, swagger when
// enabled, and every /api/v1 route.
func NewAPI(cfg APIConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	// request ID first so every later log line and span carries it
	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.ServiceName, Enabled: cfg.TracingEnabled}),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{MeterProvider: cfg.MeterProvider, Enabled: true}),
		middleware.SecureHeaders(),
		middleware.CORS(cors),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	if cfg.HTTP.SwaggerEnabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	jwt := middleware.DefaultJWTConfig(cfg.Authenticator)
	jwt.Logger = log

	Mount(engine, "v1",
		[]gin.HandlerFunc{middleware.JWTAuth(jwt), middleware.SpanEnricher()},
		apiGroups(cfg.HTTP, h)...,
	)
	return engine
}

func apiGroups(httpCfg config.HTTPConfig, h Handlers) []Group {
	window := httpCfg.LoginRateWindow
	if window <= 0 {
		window = time.Minute
	}
	loginLimiter := middleware.NewRateLimiter(max(httpCfg.LoginRateLimit, 1), window)
	// sign up and password reset share a budget separate from login
	accountLimiter := middleware.NewRateLimiter(max(httpCfg.LoginRateLimit, 1), window)

	return []Group{
		{Routes: []Route{get("/health", h.Health.Health)}},
		{Prefix: "/auth", Routes: []Route{
			post("/login", middleware.RateLimit(loginLimiter), h.Auth.Login),
			post("/refresh", h.Auth.RefreshToken),
			post("/logout", h.Auth.Logout),
			post("/register", middleware.RateLimit(accountLimiter), h.Auth.Register),
			post("/forgot-password", middleware.RateLimit(accountLimiter), h.Auth.ForgotPassword),
			post("/reset-password", middleware.RateLimit(accountLimiter), h.Auth.ResetPassword),
		}},
		{Prefix: "/catalog", Routes: []Route{
			get("/products", h.Product.List),
			post("/products", h.Product.Create),
			get("/products/low-stock", h.Product.ListLowStock),
			get("/products/:id", h.Product.GetByID),
			put("/products/:id", h.Product.Update),
			remove("/products/:id", h.Product.Delete),
			get("/categories", h.Category.List),
			post("/categories", h.Category.Create),
			remove("/categories/:id", h.Category.Delete),
		}},
		{Prefix: "/partner", Routes: []Route{
			get("/suppliers", h.Supplier.List),
			post("/suppliers", h.Supplier.Create),
			remove("/suppliers/:id", h.Supplier.Delete),
		}},
		{Prefix: "/inventory", Routes: []Route{
			post("/transactions", h.Inventory.RecordTransaction),
			get("/transactions", h.Inventory.ListTransactions),
			get("/transactions/:id", h.Inventory.GetTransaction),
		}},
		{Prefix: "/reports", Routes: []Route{
			get("/dashboard", h.Report.Dashboard),
			get("/chart", h.Report.Chart),
			get("/transactions", h.Report.TransactionReport),
			get("/transactions/export", h.Report.Export),
		}},
		{Prefix: "/notifications", Routes: []Route{
			get("", h.Notification.ListUnread),
			patch("/read-all", h.Notification.MarkAllRead),
			patch("/:id/read", h.Notification.MarkRead),
		}},
		{
			Prefix: "/identity",
			Routes: []Route{
				get("/me", h.User.GetMe),
				put("/me", h.User.UpdateMe),
				put("/me/password", h.User.ChangePassword),
			},
			Children: []Group{{
				Prefix:     "/users",
				Middleware: []gin.HandlerFunc{middleware.RequireRoles(shared.RoleAdmin)},
				Routes:     []Route{get("", h.User.List), post("", h.User.Create)},
			}},
		},
	}
}
