package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	config "github.com/skateshop/storefront/configs"
	"github.com/skateshop/storefront/internal/application/services"
	"github.com/skateshop/storefront/internal/core/ports"
	"github.com/skateshop/storefront/internal/infrastructure/cache"
	"github.com/skateshop/storefront/internal/infrastructure/cms"
	"github.com/skateshop/storefront/internal/infrastructure/db"
	"github.com/skateshop/storefront/internal/infrastructure/events"
	"github.com/skateshop/storefront/internal/infrastructure/health"
	"github.com/skateshop/storefront/internal/infrastructure/httpserver"
	customMiddleware "github.com/skateshop/storefront/internal/infrastructure/httpserver/middleware"
	"github.com/skateshop/storefront/internal/infrastructure/redis"
	"github.com/skateshop/storefront/internal/infrastructure/repositories"
	"github.com/skateshop/storefront/internal/infrastructure/square"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"cart_storage":  cfg.Cart.Storage,
		"cache_backend": cfg.Cache.Backend,
	}).Info("Starting storefront...")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var healthCheckers []ports.HealthChecker

	// Redis is shared by the cart storage, the read cache and the rate limiter
	var redisClient *goredis.Client
	if cfg.UsesRedis() {
		redisClient, err = redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()
		healthCheckers = append(healthCheckers, health.NewRedisHealthChecker(redisClient))
		logger.Info("Connected to Redis successfully")
	}

	// Cart storage
	var cartStorage ports.CartStorage
	switch cfg.Cart.Storage {
	case config.BackendRedis:
		cartStorage = cache.NewCartStorage(redis.NewRedisCache(redisClient, ""), cfg.Cart.TTL)
	case config.BackendPostgres:
		database, err := db.NewDatabase(&cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database:", err)
		}
		defer database.Close()
		logger.Info("Connected to database successfully")

		if err := database.Migrate(); err != nil {
			logger.Fatal("Failed to run migrations:", err)
		}

		repo := repositories.NewCartStorageRepository(database, cfg.Cart.TTL)
		go purgeExpiredCarts(ctx, repo, logger)
		cartStorage = repo
		healthCheckers = append(healthCheckers, health.NewDBHealthChecker(database))
	default:
		cartStorage = cache.NewCartStorage(cache.NewMemoryCache(time.Minute), cfg.Cart.TTL)
	}

	// Read-through cache for catalog, inventory and content lookups
	var readCache ports.Cache
	if cfg.Cache.Backend == config.BackendRedis {
		readCache = redis.NewRedisCache(redisClient, cfg.Cache.Prefix)
	} else {
		readCache = cache.NewMemoryCache(cfg.Cache.DefaultTTL)
	}
	variationCache := cache.NewAside(readCache, "variation", cfg.Cache.CatalogTTL, logger)
	inventoryCache := cache.NewAside(readCache, "inventory", cfg.Cache.InventoryTTL, logger)
	contentCache := cache.NewAside(readCache, "content", cfg.Cache.ContentTTL, logger)

	// Upstream clients
	httpClient := &http.Client{Timeout: 30 * time.Second}
	squareClient := square.NewClient(&cfg.Square, httpClient, logger)
	cmsClient := cms.NewClient(&cfg.CMS, httpClient, logger)
	healthCheckers = append(healthCheckers, health.NewFuncChecker("square", squareClient.Ping))

	// Cart change observers
	observers := []ports.CartObserver{services.MetricsObserver{}, services.LogObserver{Logger: logger}}
	if cfg.Events.AMQPURL != "" {
		publisher, err := events.Dial(cfg.Events.AMQPURL, cfg.Events.CartQueue)
		if err != nil {
			logger.Fatal("Failed to connect to message broker:", err)
		}
		defer publisher.Close()
		// Publishing happens off the request path; the async observer drains before the
		// publisher closes.
		async := services.NewAsyncObserver(publisher, cfg.Events.QueueSize, logger)
		defer async.Close()
		observers = append(observers, async)
		healthCheckers = append(healthCheckers, health.NewFuncChecker("amqp", publisher.Ping))
		logger.WithField("queue", cfg.Events.CartQueue).Info("Publishing cart events")
	}
	notifier := services.NewCartNotifier(observers...)

	// Services
	sessions := services.NewSessionRegistry(cartStorage, notifier, services.SessionRegistryConfig{
		KeyPrefix:   cfg.Cart.StorageKey,
		MaxSessions: cfg.Cart.MaxSessions,
		IdleTTL:     cfg.Cart.SessionIdle,
	}, logger)
	cartService := services.NewCartService(sessions, logger)
	pricingService := services.NewPricingService(squareClient, squareClient, nil, logger)
	catalogService := services.NewCatalogService(squareClient, variationCache, inventoryCache, logger)
	contentService := services.NewContentService(cmsClient, contentCache, logger)

	// Rate limiting needs shared counters, so it is only enabled with Redis
	var rateLimiterService ports.RateLimiterService
	if redisClient != nil {
		rateLimiterService = services.NewRateLimiterService(repositories.NewRateLimitRedisRepository(redisClient), &services.RateLimiterConfig{
			RequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
			BurstMultiplier:   cfg.RateLimit.BurstMultiplier,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         cfg.RateLimit.KeyPrefix,
		}, logger)
	} else {
		logger.Warn("Rate limiting disabled - Redis not configured")
	}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
	}

	deps := httpserver.ServerDeps{
		CartService:        cartService,
		PricingService:     pricingService,
		CatalogService:     catalogService,
		ContentService:     contentService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     healthCheckers,
		Session: customMiddleware.SessionConfig{
			CookieName: cfg.Cart.SessionCookie,
			HeaderName: cfg.Cart.SessionHeader,
			MaxAge:     cfg.Cart.TTL,
			Secure:     cfg.Server.Environment == "production",
		},
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

// purgeExpiredCarts removes stale cart rows every hour until ctx is done.
func purgeExpiredCarts(ctx context.Context, repo *repositories.CartStorageRepository, logger *logrus.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				logger.WithError(err).Warn("Failed to purge expired carts")
				continue
			}
			if n > 0 {
				logger.WithField("deleted", n).Info("Purged expired carts")
			}
		}
	}
}
