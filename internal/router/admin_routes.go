package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/handler"
	"github.com/fcrit/campus-events/internal/middleware"
	"github.com/fcrit/campus-events/internal/model"
)

// RegisterAdmin registers the admin panel endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Users ----
	g.GET("/users", a.ListUsers)
	g.DELETE("/users/:id", a.DeleteUser)

	// ---- Moderators ----
	g.POST("/moderators", a.CreateModerator)
	g.GET("/moderators", a.ListModerators)
	g.GET("/moderators/:id", a.GetModerator)
	g.PUT("/moderators/:id", a.UpdateModerator)
	g.PATCH("/moderators/:id", a.UpdateModerator)
	g.DELETE("/moderators/:id", a.DeleteModerator)

	// ---- Events ----
	g.GET("/events", a.ListEvents)
	g.PUT("/events/:id", a.UpdateEvent)
	g.PATCH("/events/:id", a.UpdateEvent)
	g.DELETE("/events/:id", a.DeleteEvent)
	g.POST("/events/:id/feature", a.ToggleFeatured)

	// ---- Reporting ----
	g.GET("/stats/approvals", a.Stats)
}
