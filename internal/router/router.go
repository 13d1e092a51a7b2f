// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/handler"
	"github.com/iliyamo/todo-list-api/internal/middleware"
	"github.com/iliyamo/todo-list-api/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /api/auth.
// None of them require an existing session; logout validates the cookie
// itself when one is present.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
}

// RegisterItems registers the item CRUD endpoints under /api/items. The
// JWT auth gate runs ahead of every route in the group, so no handler can
// execute without a verified identity. The list endpoint additionally
// goes through the per-user response cache.
func RegisterItems(e *echo.Echo, h *handler.ItemHandler, jwtSecret string, denylist *repository.TokenDenylist, cache *middleware.UserCache) {
	g := e.Group("/api/items")
	g.Use(middleware.JWTAuth(jwtSecret, denylist))
	g.GET("", h.List, cache.Middleware())
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
