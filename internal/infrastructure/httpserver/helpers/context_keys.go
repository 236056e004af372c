package helpers

import (
	"github.com/labstack/echo/v4"
)

type ctxKey string

const (
	keySessionID  ctxKey = "session_id"
	keyNewSession ctxKey = "new_session"
)

func SetSessionID(c echo.Context, id string) { c.Set(string(keySessionID), id) }
func GetSessionIDRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keySessionID))
	id, ok := v.(string)
	return id, ok && id != ""
}

func SetNewSession(c echo.Context, minted bool) { c.Set(string(keyNewSession), minted) }
func IsNewSession(c echo.Context) bool {
	b, _ := c.Get(string(keyNewSession)).(bool)
	return b
}
