package helpers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func GetSessionIDFromContext(c echo.Context) (string, error) {
	id, ok := GetSessionIDRaw(c)
	if !ok {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing cart session")
	}
	return id, nil
}

// RateLimitSubject keys rate limiting by cart session, falling back to the client IP.
func RateLimitSubject(c echo.Context) string {
	if id, ok := GetSessionIDRaw(c); ok {
		return "session:" + id
	}
	return "ip:" + c.RealIP()
}
