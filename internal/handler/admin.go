package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/config"
	"github.com/fcrit/campus-events/internal/model"
	"github.com/fcrit/campus-events/internal/repository"
	"github.com/fcrit/campus-events/internal/utils"
)

// AdminHandler serves the admin panel endpoints: user and moderator
// administration, full event visibility and moderation statistics.
type AdminHandler struct {
	Cfg        config.Config
	Users      *repository.UserRepo
	Moderators *repository.ModeratorRepo
	Events     *repository.EventRepo
	Approvals  *repository.ApprovalRepo
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, m *repository.ModeratorRepo, e *repository.EventRepo, a *repository.ApprovalRepo) *AdminHandler {
	if u == nil || m == nil || e == nil || a == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Cfg: cfg, Users: u, Moderators: m, Events: e, Approvals: a}
}

// ----- users -----

// ListUsers returns every user account.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return jsonRepoError(c, err, "list users failed")
	}
	out := make([]profileResp, 0, len(users))
	for _, u := range users {
		out = append(out, profileResp{
			ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role,
			RollNo: u.RollNo, Department: u.Department, Semester: u.Semester,
			PhoneNo: u.PhoneNo, CollegeEmail: u.CollegeEmail, Club: u.Club,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// DeleteUser removes a user account along with its registrations,
// likes and sessions.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	if err := h.Users.Delete(ctx, id); err != nil {
		return jsonRepoError(c, err, "delete user failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// ----- moderators -----

type moderatorReq struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
	PIN   string `json:"pin" validate:"omitempty,min=4,max=32"`
}

type moderatorResp struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CreateModerator adds a moderator to the roster. New moderators count
// toward unanimity immediately, so pending events may need their vote.
func (h *AdminHandler) CreateModerator(c echo.Context) error {
	var req moderatorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateStruct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if req.PIN == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pin required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	id, err := h.Moderators.Create(ctx, req.Email, req.Name, req.PIN, h.Cfg.BcryptCost)
	if err != nil {
		return jsonRepoError(c, err, "create moderator failed")
	}
	return c.JSON(http.StatusCreated, moderatorResp{ID: id, Email: req.Email, Name: req.Name})
}

// ListModerators returns the moderator roster.
func (h *AdminHandler) ListModerators(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	mods, err := h.Moderators.List(ctx)
	if err != nil {
		return jsonRepoError(c, err, "list moderators failed")
	}
	out := make([]moderatorResp, 0, len(mods))
	for _, m := range mods {
		out = append(out, moderatorResp{ID: m.ID, Email: m.Email, Name: m.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"moderators": out})
}

// GetModerator returns one roster entry.
func (h *AdminHandler) GetModerator(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid moderator id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	m, err := h.Moderators.GetByID(ctx, id)
	if err != nil {
		return jsonRepoError(c, err, "load moderator failed")
	}
	return c.JSON(http.StatusOK, moderatorResp{ID: m.ID, Email: m.Email, Name: m.Name})
}

// UpdateModerator changes a moderator's email, name and optionally
// rotates the PIN when one is supplied.
func (h *AdminHandler) UpdateModerator(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid moderator id"})
	}
	var req moderatorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateStruct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Moderators.Update(ctx, id, req.Email, req.Name, req.PIN, h.Cfg.BcryptCost); err != nil {
		return jsonRepoError(c, err, "update moderator failed")
	}
	return c.JSON(http.StatusOK, moderatorResp{ID: id, Email: req.Email, Name: req.Name})
}

// DeleteModerator removes a moderator and their recorded decisions.
// Shrinking the roster can complete unanimity for events the removed
// moderator never approved; those events transition on their next
// recorded decision, not retroactively.
func (h *AdminHandler) DeleteModerator(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid moderator id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	if err := h.Moderators.Delete(ctx, id); err != nil {
		return jsonRepoError(c, err, "delete moderator failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "moderator deleted"})
}

// ----- events -----

// ListEvents returns every event regardless of status.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	events, err := h.Events.ListAll(ctx)
	if err != nil {
		return jsonRepoError(c, err, "list events failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// UpdateEvent overwrites an event's fields without an ownership check.
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	in := req.toInput()
	if !validCategory(in.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Events.Update(ctx, id, 0, in); err != nil {
		return jsonRepoError(c, err, "update event failed")
	}
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return jsonRepoError(c, err, "load event failed")
	}
	return c.JSON(http.StatusOK, ev)
}

// DeleteEvent removes an event and everything hanging off it.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	if err := h.Events.Delete(ctx, id); err != nil {
		return jsonRepoError(c, err, "delete event failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "event deleted"})
}

// ToggleFeatured pins or unpins an approved event on the public feed.
func (h *AdminHandler) ToggleFeatured(c echo.Context) error {
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
		return c.JSON(http.StatusConflict, echo.Map{"error": "only approved events can be featured"})
	}
	featured, err := h.Events.ToggleFeatured(ctx, id)
	if err != nil {
		return jsonRepoError(c, err, "toggle featured failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "featured": featured})
}

// Stats returns per-moderator approval counts.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	stats, err := h.Approvals.Stats(ctx)
	if err != nil {
		return jsonRepoError(c, err, "load stats failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}
