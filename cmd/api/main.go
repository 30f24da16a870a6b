package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookingsite/internal/cache"
	"bookingsite/internal/config"
	"bookingsite/internal/database"
	"bookingsite/internal/domain/availability"
	"bookingsite/internal/domain/booking"
	"bookingsite/internal/domain/cart"
	"bookingsite/internal/domain/catalog"
	"bookingsite/internal/domain/deposit"
	"bookingsite/internal/domain/notification"
	"bookingsite/internal/domain/payment"
	"bookingsite/internal/domain/settings"
	"bookingsite/internal/events"
	"bookingsite/internal/middleware"
	"bookingsite/internal/pkg/clock"
	jwtsvc "bookingsite/internal/pkg/jwt"
	"bookingsite/internal/pkg/logger"
	"bookingsite/internal/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("db migrate failed", zap.Error(err))
	}

	store, closeStore := buildCache(cfg, zl)
	defer closeStore()

	pub := buildPublisher(cfg, zl)
	defer func() { _ = pub.Close() }()

	clk := clock.Real{}

	// --- Repositories ---
	settingsRepo := settings.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	// --- Services ---
	settingsProvider := settings.NewProvider(settingsRepo, store, cfg.SettingsCacheTTL, zl)
	depositCalc := deposit.NewCalculator(catalogRepo, settingsProvider)
	slotCalc := availability.NewCalculator(catalogRepo, catalogRepo, bookingRepo, settingsProvider, clk)

	bookingService := booking.NewService(booking.Deps{
		Repo:     bookingRepo,
		Services: catalogRepo,
		Settings: settingsProvider,
		Slots:    slotCalc,
		Deposits: depositCalc,
		Checkout: buildCheckout(cfg, zl),
		Notifier: buildNotifier(cfg, zl),
		Events:   pub,
		Clock:    clk,
		Logger:   zl,
		URLs: booking.CheckoutURLs{
			Success: cfg.CheckoutSuccessURL,
			Cancel:  cfg.CheckoutCancelURL,
		},
	})

	sweeper := booking.NewSweeper(bookingRepo, pub, clk, zl)
	if cfg.SweeperSchedule != "" {
		if err := sweeper.Start(cfg.SweeperSchedule); err != nil {
			zl.Fatal("sweeper schedule invalid", zap.Error(err), zap.String("schedule", cfg.SweeperSchedule))
		}
		defer sweeper.Stop()
	}

	// --- Handlers ---
	settingsHandler := settings.NewHandler(settingsProvider)
	catalogHandler := catalog.NewHandler(catalogRepo, depositCalc)
	availabilityHandler := availability.NewHandler(slotCalc, settingsProvider)
	bookingHandler := booking.NewHandler(bookingService, sweeper)
	webhookHandler := payment.NewWebhookHandler(cfg.StripeWebhookSecret, bookingService, zl)
	cartHandler := cart.NewHandler(cart.NewStore(store, cfg.CartTTL, clk))

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	r := gin.New()
	r.Use(middleware.RequestLogger(zl), middleware.Recovery(zl), middleware.CORS(cfg.CORSOrigins()))

	r.GET("/health", healthCheck(db))

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterRoutes(v1)
		availabilityHandler.RegisterRoutes(v1)
		bookingHandler.RegisterRoutes(v1, middleware.RateLimit(cfg.RateLimitHoldsPerMin))
		cartHandler.RegisterRoutes(v1)
		webhookHandler.RegisterRoutes(v1)

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(jwtService)...)
		{
			settingsHandler.RegisterAdminRoutes(admin)
			catalogHandler.RegisterAdminRoutes(admin)
			bookingHandler.RegisterAdminRoutes(admin)
		}

		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth(cfg.SweeperToken, zl))
		{
			bookingHandler.RegisterInternalRoutes(internal)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("api listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("http shutdown", zap.Error(err))
	}
}

func buildCache(cfg *config.Config, zl *zap.Logger) (cache.Cache, func()) {
	if cfg.RedisURL == "" {
		zl.Info("redis not configured, using in-memory cache")
		return cache.NewMemory(), func() {}
	}
	rc, err := cache.NewRedisFromURL(cfg.RedisURL, "bookingsite:")
	if err != nil {
		zl.Fatal("redis url invalid", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		zl.Fatal("redis ping failed", zap.Error(err))
	}
	return rc, func() { _ = rc.Close() }
}

func buildPublisher(cfg *config.Config, zl *zap.Logger) events.Publisher {
	brokers := cfg.KafkaBrokerList()
	if len(brokers) == 0 {
		return events.NopPublisher{}
	}
	pub, err := events.NewKafkaPublisher(brokers, cfg.KafkaTopic, zl)
	if err != nil {
		zl.Fatal("kafka publisher", zap.Error(err))
	}
	return pub
}

func buildCheckout(cfg *config.Config, zl *zap.Logger) payment.Bridge {
	if cfg.StripeSecretKey == "" {
		zl.Warn("STRIPE_SECRET_KEY not set, deposits cannot be collected")
		return payment.DisabledBridge{}
	}
	return payment.NewStripeBridge(cfg.StripeSecretKey, cfg.StripeCurrency)
}

func buildNotifier(cfg *config.Config, zl *zap.Logger) notification.Notifier {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
		return notification.NewLogNotifier(zl)
	}
	return notification.NewTwilioNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, zl)
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
