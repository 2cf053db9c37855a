package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ActorHeader carries the opaque actor UID resolved by the identity proxy in
// front of this service. The core never verifies credentials itself.
const ActorHeader = "X-Actor-Uid"

type AuthMiddleware struct{}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := strings.TrimSpace(c.Request().Header.Get(ActorHeader))
		if uid == "" {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"error": map[string]string{"code": "unauthorized", "message": "missing actor uid"},
			})
		}
		c.Set("uid", uid)
		return next(c)
	}
}
