package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	reportapp "github.com/storefront/backend/internal/application/report"
	sourcingapp "github.com/storefront/backend/internal/application/sourcing"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/billing"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/storefront/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Storefront API
//	@version		1.0
//	@description	Catalog, cart, checkout and back office API of the storefront.

//	@BasePath	/api

//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						session

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token as "Bearer {token}" for clients without cookies

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg.App, cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	// Ship log records to the collector alongside stdout when enabled
	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)
	defer shutdownWithTimeout(log, "logs", loggerProvider.Shutdown)

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)
	production := cfg.App.Env == "production"

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer shutdownWithTimeout(log, "traces", tracerProvider.Shutdown)

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer shutdownWithTimeout(log, "metrics", meterProvider.Shutdown)

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.Open(context.Background(), &cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL && !production
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Revoked session ids live in Redis so every instance sees a logout.
	// Without Redis a process-local list keeps single-instance setups working.
	var revocations auth.RevocationStore
	redisClient, err := auth.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		if production {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, revoked sessions are tracked in memory", zap.Error(err))
		revocations = auth.NewMemoryRevocationStore()
	} else {
		defer func() { _ = redisClient.Close() }()
		revocations = auth.NewRedisRevocationStore(redisClient)
	}

	var images catalogapp.ImageStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ImageStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		images = s3
	} else {
		log.Warn("Object storage disabled, image uploads return placeholder URLs")
		images = storage.NewStubImageStorage()
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	requestRepo := persistence.NewGormProductRequestRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	paymentGateway := billing.NewStripePaymentGateway(cfg.Stripe, log)
	pricing := trade.Pricing{
		TaxRate:  decimal.NewFromFloat(cfg.Checkout.TaxRate),
		Shipping: decimal.NewFromFloat(cfg.Checkout.ShippingFlat),
	}

	authService := identityapp.NewAuthService(userRepo, jwtService, revocations, log)
	productService := catalogapp.NewProductService(productRepo, images, cfg.Storage.PresignExpiration, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo, log)
	checkoutService := tradeapp.NewCheckoutService(cartRepo, orderRepo, paymentGateway, pricing, cfg.Stripe.Currency, log)
	checkoutMetrics, err := telemetry.NewCheckoutMetrics(meterProvider.Meter(telemetry.TracerName))
	if err != nil {
		log.Fatal("Failed to register checkout metrics", zap.Error(err))
	}
	checkoutService.SetMetrics(checkoutMetrics)
	orderService := tradeapp.NewOrderService(orderRepo, log)
	requestService := sourcingapp.NewProductRequestService(requestRepo, userRepo, log)
	statsService := reportapp.NewStatsService(orderRepo, productRepo, requestRepo)

	handlers := router.Handlers{
		Auth:           handler.NewAuthHandler(authService, cfg.Cookie),
		Product:        handler.NewProductHandler(productService),
		Cart:           handler.NewCartHandler(cartService),
		Checkout:       handler.NewCheckoutHandler(checkoutService),
		Order:          handler.NewOrderHandler(orderService),
		ProductRequest: handler.NewProductRequestHandler(requestService),
		Stats:          handler.NewStatsHandler(statsService),
		StripeWebhook:  handler.NewStripeWebhookHandler(checkoutService),
	}

	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Server span plus request/user attributes
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Per-client request budget (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanEnricher())

	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = production
	if !production {
		// the swagger UI needs scripts and styles
		securityConfig.CSPDirective = ""
	}
	engine.Use(middleware.SecureWithConfig(securityConfig))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	guards := router.Guards{
		Session: middleware.SessionAuth(middleware.SessionAuthConfig{
			JWTService:  jwtService,
			Revocations: revocations,
			CookieName:  cfg.Cookie.Name,
			Logger:      log,
		}),
		Admin: middleware.RequireAdmin(authService, log),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		guards.AuthRateLimit = middleware.AuthRateLimit(authLimiter)
	}

	engine.GET("/health", handler.NewHealthHandler(db).Health)
	if !production {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r := router.NewRouter(engine)
	routeCount := 0
	for _, group := range router.StorefrontRoutes(handlers, guards) {
		r.Register(group)
		routes := group.Routes()
		routeCount += len(routes)
		log.Debug("Route group", zap.String("group", group.Name()), zap.Strings("routes", routes))
	}
	r.Setup()
	log.Info("Routes registered", zap.Int("count", routeCount))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// shutdownWithTimeout flushes one telemetry signal on exit
func shutdownWithTimeout(log *zap.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("Error flushing telemetry", zap.String("signal", name), zap.Error(err))
	}
}
