package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/repository"
	"github.com/iliyamo/todo-list-api/internal/utils"
)

// JWTAuth returns an Echo middleware that authenticates requests from the
// session cookie. The credential is trusted purely on signature validity
// and expiry; no database lookup happens here. On success the user id is
// injected into the request context so that handlers can access it via
// `c.Get("user_id")`.
//
// An empty secret makes the gate fail closed: every request is rejected
// with 401 rather than ever accepting an unverifiable token. When a
// denylist is configured, tokens revoked by logout are rejected as well.
func JWTAuth(secret string, denylist *repository.TokenDenylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(utils.TokenCookie)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Authentication token missing"})
			}
			claims, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
			}
			if denylist.IsRevoked(c.Request().Context(), claims.ID) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
			}
			c.Set("user_id", claims.UserID)
			return next(c)
		}
	}
}
