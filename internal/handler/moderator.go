package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/fcrit/campus-events/internal/queue"
	"github.com/fcrit/campus-events/internal/repository"
)

// ApprovalStore is the slice of the approval repository the moderator
// endpoints depend on. Narrowing the dependency to an interface lets
// tests drive the handlers with an in-memory store.
type ApprovalStore interface {
	RecordDecision(ctx context.Context, eventID, moderatorID uint64, approved bool) (repository.DecisionOutcome, error)
	ListPending(ctx context.Context, moderatorID uint64) ([]repository.PendingEvent, error)
	History(ctx context.Context, moderatorID uint64) ([]repository.HistoryEntry, error)
	StatusForEvent(ctx context.Context, eventID uint64) (repository.EventStatus, error)
}

// ModeratorHandler serves the moderation dashboard endpoints. Publish
// is invoked after a decision moves an event out of PENDING; a nil
// Publish disables notifications.
type ModeratorHandler struct {
	Approvals ApprovalStore
	Publish   func(ctx context.Context, ev queue.EventModeratedEvent) error
}

func NewModeratorHandler(approvals ApprovalStore, publish func(ctx context.Context, ev queue.EventModeratedEvent) error) *ModeratorHandler {
	if approvals == nil {
		panic("nil approval store passed to NewModeratorHandler")
	}
	return &ModeratorHandler{Approvals: approvals, Publish: publish}
}

// Pending lists all pending events with approval progress for the
// requesting moderator.
func (h *ModeratorHandler) Pending(c echo.Context) error {
	modID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	pending, err := h.Approvals.ListPending(ctx, modID)
	if err != nil {
		return jsonRepoError(c, err, "list pending failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"events": pending})
}

// Approve records an approval for the event in the path.
func (h *ModeratorHandler) Approve(c echo.Context) error {
	return h.decide(c, true)
}

// Reject records a rejection for the event in the path.
func (h *ModeratorHandler) Reject(c echo.Context) error {
	return h.decide(c, false)
}

func (h *ModeratorHandler) decide(c echo.Context, approved bool) error {
	modID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	out, err := h.Approvals.RecordDecision(ctx, eventID, modID, approved)
	if err != nil {
		return jsonRepoError(c, err, "record decision failed")
	}

	if out.Transitioned {
		h.notify(out, modID)
	}
	return c.JSON(http.StatusOK, out)
}

// notify publishes the terminal transition in the background. The
// decision is already committed, so publish failures are only logged.
func (h *ModeratorHandler) notify(out repository.DecisionOutcome, modID uint64) {
	if h.Publish == nil {
		return
	}
	ev := queue.EventModeratedEvent{
		EventID:        out.Event.ID,
		EventName:      out.Event.Name,
		OrganizerID:    out.Event.OrganizerID,
		Category:       out.Event.Category,
		EventDate:      out.Event.EventDate,
		PreviousStatus: out.PreviousStatus,
		NewStatus:      out.Event.Status,
		ModeratorID:    modID,
		Approvals:      out.Approvals,
		RosterSize:     out.Roster,
		DecidedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Publish(ctx, ev); err != nil {
			log.Warn().Err(err).Uint64("event_id", ev.EventID).Msg("publish moderation event failed")
		}
	}()
}

// History returns the requesting moderator's past decisions.
func (h *ModeratorHandler) History(c echo.Context) error {
	modID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	history, err := h.Approvals.History(ctx, modID)
	if err != nil {
		return jsonRepoError(c, err, "load history failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"history": history})
}

// EventStatus returns per-moderator decisions and how many approvals an
// event still needs.
func (h *ModeratorHandler) EventStatus(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	st, err := h.Approvals.StatusForEvent(ctx, eventID)
	if err != nil {
		return jsonRepoError(c, err, "load event status failed")
	}
	return c.JSON(http.StatusOK, st)
}
