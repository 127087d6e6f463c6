package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/model"
	"github.com/fcrit/campus-events/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints. Only
// approved events are ever visible here.
type PublicHandler struct {
	Events        *repository.EventRepo
	Likes         *repository.LikeRepo
	Registrations *repository.RegistrationRepo
}

func NewPublicHandler(e *repository.EventRepo, l *repository.LikeRepo, g *repository.RegistrationRepo) *PublicHandler {
	if e == nil || l == nil || g == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Events: e, Likes: l, Registrations: g}
}

// List returns the approved event feed, featured events first. An
// optional ?category= query narrows the feed.
func (h *PublicHandler) List(c echo.Context) error {
	category := strings.ToLower(strings.TrimSpace(c.QueryParam("category")))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	events, err := h.Events.ListApproved(ctx, category)
	if err != nil {
		return jsonRepoError(c, err, "list events failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

type eventDetail struct {
	Event         model.Event `json:"event"`
	Likes         int         `json:"likes"`
	Registrations int         `json:"registrations"`
}

// Detail returns one approved event with its like and registration
// counts. Pending and cancelled events are indistinguishable from
// missing ones.
func (h *PublicHandler) Detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return jsonRepoError(c, err, "load event failed")
	}
	if ev.Status != model.EventStatusApproved {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	likes, err := h.Likes.CountByEvent(ctx, id)
	if err != nil {
		return jsonRepoError(c, err, "count likes failed")
	}
	regs, err := h.Registrations.CountByEvent(ctx, id)
	if err != nil {
		return jsonRepoError(c, err, "count registrations failed")
	}
	return c.JSON(http.StatusOK, eventDetail{Event: ev, Likes: likes, Registrations: regs})
}

// Categories returns the accepted event categories for client filters.
func (h *PublicHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"categories": model.EventCategories})
}
