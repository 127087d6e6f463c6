package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/handler"
	"github.com/fcrit/campus-events/internal/middleware"
	"github.com/fcrit/campus-events/internal/model"
)

// RegisterModerator registers MODERATOR-scoped endpoints under
// /v1/moderator.
func RegisterModerator(e *echo.Echo, m *handler.ModeratorHandler, jwtSecret string) {
	g := e.Group(
		"/v1/moderator",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleModerator),
	)

	g.GET("/events", m.Pending)
	g.POST("/events/:id/approve", m.Approve)
	g.POST("/events/:id/reject", m.Reject)
	g.GET("/events/:id/status", m.EventStatus)
	g.GET("/history", m.History)
}
