// Package router wires HTTP routes to their handlers and access
// control middleware. Each role's surface lives in its own file.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/handler"
	"github.com/fcrit/campus-events/internal/middleware"
)

// RegisterRoutes registers routes that carry no authentication.
// Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Session
// management for user accounts lives under /v1/auth; the PIN logins for
// moderators and the admin sit alongside them.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/moderator/login", a.ModeratorLogin)
	g.POST("/admin/login", a.AdminLogin)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateMe)
	auth.POST("/auth/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints. The
// cache middleware fronts these, since the approved feed is the hottest
// read path and changes only when moderation completes.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/events", p.List)
	g.GET("/events/:id", p.Detail)
	g.GET("/categories", p.Categories)
}
