package httpserver

import (
	"slices"

	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) setupMiddleware() {
	if s.config.Environment == "development" {
		s.echo.Use(middleware.Logger())
	}
	s.echo.Use(middleware.Recover())
	// Browsers reject a wildcard origin on credentialed requests, so the session cookie
	// only travels cross-origin when origins are listed explicitly.
	wildcard := slices.Contains(s.config.AllowedOrigins, "*")
	if wildcard && s.logger != nil {
		s.logger.Warn("CORS allows any origin; cross-origin requests will not carry the cart session cookie")
	}
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowCredentials: !wildcard,
		ExposeHeaders:    []string{s.middleware.Session.HeaderName()},
	}))
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.BodyLimit("1M"))

	s.echo.Use(s.middleware.Metrics.CollectHTTPMetrics())
	s.echo.Use(s.middleware.Logging.RequestLogging())
}
