package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/model"
	"github.com/fcrit/campus-events/internal/repository"
	"github.com/fcrit/campus-events/internal/txnscan"
)

// RegistrationStore is the slice of the registration repository the
// student endpoints depend on.
type RegistrationStore interface {
	Register(ctx context.Context, eventID, userID uint64, txnID string) (model.EventRegistration, error)
	TxnExists(ctx context.Context, txnID string) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.RegistrationDetail, error)
}

// LikeStore is the slice of the like repository the student endpoints
// depend on.
type LikeStore interface {
	Toggle(ctx context.Context, eventID, userID uint64) (liked bool, count int, err error)
	LikedBy(ctx context.Context, eventID, userID uint64) (bool, error)
}

// StudentHandler serves registration, liking and payment helper
// endpoints for authenticated students and organizers.
type StudentHandler struct {
	Registrations RegistrationStore
	Likes         LikeStore
}

func NewStudentHandler(g RegistrationStore, l LikeStore) *StudentHandler {
	if g == nil || l == nil {
		panic("nil store passed to NewStudentHandler")
	}
	return &StudentHandler{Registrations: g, Likes: l}
}

type registerEventReq struct {
	TxnID string `json:"txn_id"`
}

// Register registers the caller for an approved event. Paid events
// require a transaction id, which must never have been used before.
func (h *StudentHandler) Register(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req registerEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	reg, err := h.Registrations.Register(ctx, eventID, uid, strings.TrimSpace(req.TxnID))
	if err != nil {
		return jsonRepoError(c, err, "register failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"registration": reg})
}

// MyRegistrations lists the caller's registrations, newest first.
func (h *StudentHandler) MyRegistrations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	regs, err := h.Registrations.ListByUser(ctx, uid)
	if err != nil {
		return jsonRepoError(c, err, "list registrations failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"registrations": regs})
}

// ToggleLike flips the caller's like on an event and returns the new
// state and total count.
func (h *StudentHandler) ToggleLike(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	liked, count, err := h.Likes.Toggle(ctx, eventID, uid)
	if err != nil {
		return jsonRepoError(c, err, "toggle like failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "likes": count})
}

// Liked reports whether the caller currently likes an event.
func (h *StudentHandler) Liked(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	liked, err := h.Likes.LikedBy(ctx, eventID, uid)
	if err != nil {
		return jsonRepoError(c, err, "load like state failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

type verifyTxnReq struct {
	TxnID string `json:"txn_id"`
}

// VerifyTxn reports whether a transaction id has already been consumed
// by another registration. The check is advisory; Register performs the
// authoritative guard inside its transaction.
func (h *StudentHandler) VerifyTxn(c echo.Context) error {
	var req verifyTxnReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.TxnID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "txn_id required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()
	used, err := h.Registrations.TxnExists(ctx, strings.TrimSpace(req.TxnID))
	if err != nil {
		return jsonRepoError(c, err, "verify txn failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"txn_id": strings.TrimSpace(req.TxnID), "used": used})
}

type extractTxnReq struct {
	Text string `json:"text"`
}

// ExtractTxn scans OCR text from a payment screenshot for a transaction
// id. Clients run OCR on the uploaded image and submit the raw text.
func (h *StudentHandler) ExtractTxn(c echo.Context) error {
	var req extractTxnReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}
	id, ok := txnscan.Extract(req.Text)
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no transaction id found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"txn_id": id})
}
