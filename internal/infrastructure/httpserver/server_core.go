package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/internal/core/ports"
	customMiddleware "github.com/skateshop/storefront/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	Environment    string
}

type ServerDeps struct {
	CartService        ports.CartService
	PricingService     ports.PricingService
	CatalogService     ports.CatalogService
	ContentService     ports.ContentService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
	Session            customMiddleware.SessionConfig
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	cartSvc        ports.CartService
	pricingSvc     ports.PricingService
	catalogSvc     ports.CatalogService
	contentSvc     ports.ContentService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		cartSvc:        deps.CartService,
		pricingSvc:     deps.PricingService,
		catalogSvc:     deps.CatalogService,
		contentSvc:     deps.ContentService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.Session,
			deps.RateLimiterService,
			logger,
			httpMetrics,
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
