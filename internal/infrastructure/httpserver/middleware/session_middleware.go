package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/internal/core/domain/cart"
	"github.com/skateshop/storefront/internal/infrastructure/httpserver/helpers"
)

// SessionConfig names where the cart session id travels.
type SessionConfig struct {
	CookieName string
	HeaderName string
	MaxAge     time.Duration
	Secure     bool
}

type SessionMiddleware struct {
	cfg    SessionConfig
	logger *logrus.Logger
}

func NewSessionMiddleware(cfg SessionConfig, logger *logrus.Logger) *SessionMiddleware {
	if cfg.CookieName == "" {
		cfg.CookieName = "cart_session"
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Cart-Session"
	}
	return &SessionMiddleware{cfg: cfg, logger: logger}
}

// ResolveSession reads the session id from the cookie or header, minting a new one when
// neither carries a valid UUID, and scopes the request context to it.
func (m *SessionMiddleware) ResolveSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := m.lookup(c)
			if !ok {
				id = uuid.NewString()
				helpers.SetNewSession(c, true)
				if m.logger != nil {
					m.logger.WithField("session_id", id).Debug("minted cart session")
				}
			}

			c.SetCookie(&http.Cookie{
				Name:     m.cfg.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(m.cfg.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   m.cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Response().Header().Set(m.cfg.HeaderName, id)

			helpers.SetSessionID(c, id)
			req := c.Request()
			c.SetRequest(req.WithContext(cart.WithSession(req.Context(), id)))
			return next(c)
		}
	}
}

func (m *SessionMiddleware) lookup(c echo.Context) (string, bool) {
	if ck, err := c.Cookie(m.cfg.CookieName); err == nil && valid(ck.Value) {
		return ck.Value, true
	}
	if h := c.Request().Header.Get(m.cfg.HeaderName); valid(h) {
		return h, true
	}
	return "", false
}

func valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// HeaderName returns the header carrying the session id.
func (m *SessionMiddleware) HeaderName() string { return m.cfg.HeaderName }
