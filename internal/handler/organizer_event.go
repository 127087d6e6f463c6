package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/model"
	"github.com/fcrit/campus-events/internal/repository"
	"github.com/fcrit/campus-events/internal/utils"
)

// OrganizerHandler serves the organizer's event management endpoints.
// Organizers only ever see and mutate their own events; every write
// carries the caller's id so the repository can enforce ownership.
type OrganizerHandler struct {
	Events        *repository.EventRepo
	Approvals     *repository.ApprovalRepo
	Registrations *repository.RegistrationRepo
}

func NewOrganizerHandler(e *repository.EventRepo, a *repository.ApprovalRepo, g *repository.RegistrationRepo) *OrganizerHandler {
	if e == nil || a == nil || g == nil {
		panic("nil repository passed to NewOrganizerHandler")
	}
	return &OrganizerHandler{Events: e, Approvals: a, Registrations: g}
}

type eventReq struct {
	Name                    string  `json:"name" validate:"required,min=3,max=255"`
	Description             *string `json:"description"`
	Logo                    *string `json:"logo"`
	BannerImage             *string `json:"banner_image"`
	ParticipantRegistration bool    `json:"participant_registration"`
	Category                string  `json:"category" validate:"required"`
	Mode                    *string `json:"mode"`
	Website                 *string `json:"website"`
	IsPaid                  bool    `json:"is_paid"`
	PriceCents              uint32  `json:"price_cents"`
	QRImage                 *string `json:"qr_image"`
	EventDate               string  `json:"event_date" validate:"required,eventdate"`
}

func (r eventReq) toInput() repository.NewEventInput {
	return repository.NewEventInput{
		Name:                    strings.TrimSpace(r.Name),
		Description:             r.Description,
		Logo:                    r.Logo,
		BannerImage:             r.BannerImage,
		ParticipantRegistration: r.ParticipantRegistration,
		Category:                strings.ToLower(strings.TrimSpace(r.Category)),
		Mode:                    r.Mode,
		Website:                 r.Website,
		IsPaid:                  r.IsPaid,
		PriceCents:              r.PriceCents,
		QRImage:                 r.QRImage,
		EventDate:               r.EventDate,
	}
}

func validCategory(cat string) bool {
	for _, c := range model.EventCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// Create submits a new event. It always enters the workflow as PENDING
// and stays invisible to the public feed until every moderator approves.
func (h *OrganizerHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
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
	if in.IsPaid && in.PriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "paid event needs a price"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	id, err := h.Events.Create(ctx, uid, in)
	if err != nil {
		return jsonRepoError(c, err, "create event failed")
	}
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return jsonRepoError(c, err, "load event failed")
	}
	return c.JSON(http.StatusCreated, ev)
}

// Update overwrites one of the caller's events.
func (h *OrganizerHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
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

	if err := h.Events.Update(ctx, id, uid, in); err != nil {
		return jsonRepoError(c, err, "update event failed")
	}
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return jsonRepoError(c, err, "load event failed")
	}
	return c.JSON(http.StatusOK, ev)
}

type myEventEntry struct {
	Event           model.Event `json:"event"`
	Approvals       int         `json:"approvals"`
	TotalModerators int         `json:"total_moderators"`
	Registrations   int         `json:"registrations"`
}

// Mine lists the caller's events with approval progress and the
// registration count for each.
func (h *OrganizerHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	events, err := h.Events.ListByOrganizer(ctx, uid)
	if err != nil {
		return jsonRepoError(c, err, "list events failed")
	}
	out := make([]myEventEntry, 0, len(events))
	for _, ev := range events {
		st, err := h.Approvals.StatusForEvent(ctx, ev.ID)
		if err != nil {
			return jsonRepoError(c, err, "load approval status failed")
		}
		regs, err := h.Registrations.CountByEvent(ctx, ev.ID)
		if err != nil {
			return jsonRepoError(c, err, "count registrations failed")
		}
		out = append(out, myEventEntry{
			Event:           ev,
			Approvals:       st.TotalModerators - st.AwaitingCount,
			TotalModerators: st.TotalModerators,
			Registrations:   regs,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}

// ApprovalStatus shows which moderators have decided on one of the
// caller's events.
func (h *OrganizerHandler) ApprovalStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
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
	if ev.OrganizerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	st, err := h.Approvals.StatusForEvent(ctx, id)
	if err != nil {
		return jsonRepoError(c, err, "load approval status failed")
	}
	return c.JSON(http.StatusOK, st)
}
