package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/handler"
	"github.com/fcrit/campus-events/internal/middleware"
	"github.com/fcrit/campus-events/internal/model"
)

// RegisterStudent registers the registration, like and payment helper
// endpoints. Organizers can register and like like any student, so both
// account roles are accepted.
func RegisterStudent(e *echo.Echo, s *handler.StudentHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStudent, model.RoleOrganizer),
	)

	g.POST("/events/:id/register", s.Register)
	g.POST("/events/:id/like", s.ToggleLike)
	g.GET("/events/:id/liked", s.Liked)
	g.GET("/registrations", s.MyRegistrations)
	g.POST("/payments/verify-txn", s.VerifyTxn)
	g.POST("/payments/extract-txn", s.ExtractTxn)
}
