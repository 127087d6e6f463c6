package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/handler"
	"github.com/fcrit/campus-events/internal/middleware"
	"github.com/fcrit/campus-events/internal/model"
)

// RegisterOrganizer registers ORGANIZER-scoped endpoints under
// /v1/organizer. All routes require a valid JWT with the ORGANIZER role.
func RegisterOrganizer(e *echo.Echo, o *handler.OrganizerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/organizer",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOrganizer),
	)

	g.POST("/events", o.Create)
	g.GET("/events", o.Mine)
	g.PUT("/events/:id", o.Update)
	g.PATCH("/events/:id", o.Update)
	g.GET("/events/:id/approvals", o.ApprovalStatus)
}
