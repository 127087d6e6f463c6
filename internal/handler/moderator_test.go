package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/model"
	"github.com/fcrit/campus-events/internal/queue"
	"github.com/fcrit/campus-events/internal/repository"
)

// fakeApprovalStore keeps approvals in memory and applies the same
// transition rule as the database-backed repository.
type fakeApprovalStore struct {
	event     model.Event
	roster    int
	decisions map[uint64]bool // moderator id -> latest decision
}

func newFakeApprovalStore(roster int) *fakeApprovalStore {
	return &fakeApprovalStore{
		event:     model.Event{ID: 1, Name: "Tech Symposium", Status: model.EventStatusPending, OrganizerID: 7, Category: "technical", EventDate: "2026-10-01"},
		roster:    roster,
		decisions: map[uint64]bool{},
	}
}

func (f *fakeApprovalStore) approvalCount() int {
	n := 0
	for _, ok := range f.decisions {
		if ok {
			n++
		}
	}
	return n
}

func (f *fakeApprovalStore) RecordDecision(_ context.Context, eventID, moderatorID uint64, approved bool) (repository.DecisionOutcome, error) {
	if eventID != f.event.ID {
		return repository.DecisionOutcome{}, repository.ErrEventNotFound
	}
	if approved && f.roster == 0 {
		return repository.DecisionOutcome{}, repository.ErrNoModerators
	}
	prev := f.event.Status
	f.decisions[moderatorID] = approved
	next, changed := model.NextStatus(f.event.Status, approved, f.approvalCount(), f.roster)
	if changed {
		f.event.Status = next
	}
	return repository.DecisionOutcome{
		Event:          f.event,
		PreviousStatus: prev,
		Approvals:      f.approvalCount(),
		Roster:         f.roster,
		Transitioned:   changed,
	}, nil
}

func (f *fakeApprovalStore) ListPending(_ context.Context, moderatorID uint64) ([]repository.PendingEvent, error) {
	if f.event.Status != model.EventStatusPending {
		return []repository.PendingEvent{}, nil
	}
	return []repository.PendingEvent{{
		Event:           f.event,
		Approvals:       f.approvalCount(),
		TotalModerators: f.roster,
		ApprovedByMe:    f.decisions[moderatorID],
	}}, nil
}

func (f *fakeApprovalStore) History(_ context.Context, moderatorID uint64) ([]repository.HistoryEntry, error) {
	if d, ok := f.decisions[moderatorID]; ok {
		return []repository.HistoryEntry{{EventID: f.event.ID, EventName: f.event.Name, Status: f.event.Status, IsApproved: d}}, nil
	}
	return []repository.HistoryEntry{}, nil
}

func (f *fakeApprovalStore) StatusForEvent(_ context.Context, eventID uint64) (repository.EventStatus, error) {
	if eventID != f.event.ID {
		return repository.EventStatus{}, repository.ErrEventNotFound
	}
	return repository.EventStatus{Event: f.event, TotalModerators: f.roster, AwaitingCount: f.roster - len(f.decisions)}, nil
}

func decideRequest(h *ModeratorHandler, approve bool, eventID string, moderatorID interface{}) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(eventID)
	if moderatorID != nil {
		c.Set("user_id", moderatorID)
	}
	if approve {
		_ = h.Approve(c)
	} else {
		_ = h.Reject(c)
	}
	return rec
}

func TestUnanimousApprovalTransitions(t *testing.T) {
	store := newFakeApprovalStore(2)
	published := make(chan queue.EventModeratedEvent, 2)
	h := NewModeratorHandler(store, func(_ context.Context, ev queue.EventModeratedEvent) error {
		published <- ev
		return nil
	})

	rec := decideRequest(h, true, "1", "10")
	if rec.Code != http.StatusOK {
		t.Fatalf("first approval status = %d, want 200", rec.Code)
	}
	var out repository.DecisionOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode first outcome: %v", err)
	}
	if out.Transitioned || out.Event.Status != model.EventStatusPending {
		t.Fatalf("first approval transitioned early: %+v", out)
	}

	rec = decideRequest(h, true, "1", "11")
	if rec.Code != http.StatusOK {
		t.Fatalf("second approval status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode second outcome: %v", err)
	}
	if !out.Transitioned || out.Event.Status != model.EventStatusApproved {
		t.Fatalf("unanimous approval did not transition: %+v", out)
	}

	select {
	case ev := <-published:
		if ev.NewStatus != model.EventStatusApproved || ev.EventID != 1 {
			t.Errorf("published event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Error("no moderation event published after transition")
	}
	select {
	case ev := <-published:
		t.Errorf("unexpected second publish: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSingleRejectionCancels(t *testing.T) {
	store := newFakeApprovalStore(3)
	published := make(chan queue.EventModeratedEvent, 1)
	h := NewModeratorHandler(store, func(_ context.Context, ev queue.EventModeratedEvent) error {
		published <- ev
		return nil
	})

	// One approval first, then a rejection from another moderator.
	decideRequest(h, true, "1", "10")
	rec := decideRequest(h, false, "1", "11")
	if rec.Code != http.StatusOK {
		t.Fatalf("rejection status = %d, want 200", rec.Code)
	}
	var out repository.DecisionOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if !out.Transitioned || out.Event.Status != model.EventStatusCancelled {
		t.Fatalf("rejection did not cancel: %+v", out)
	}

	select {
	case ev := <-published:
		if ev.NewStatus != model.EventStatusCancelled {
			t.Errorf("published status = %s, want CANCELLED", ev.NewStatus)
		}
	case <-time.After(time.Second):
		t.Error("no moderation event published after cancellation")
	}

	// The cancelled event cannot be revived by further approvals.
	decideRequest(h, true, "1", "12")
	if store.event.Status != model.EventStatusCancelled {
		t.Errorf("status after late approval = %s, want CANCELLED", store.event.Status)
	}
}

func TestRepeatedApprovalDoesNotDoubleCount(t *testing.T) {
	store := newFakeApprovalStore(2)
	h := NewModeratorHandler(store, nil)

	decideRequest(h, true, "1", "10")
	rec := decideRequest(h, true, "1", "10")
	var out repository.DecisionOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if out.Approvals != 1 {
		t.Errorf("approvals = %d after repeated vote, want 1", out.Approvals)
	}
	if out.Event.Status != model.EventStatusPending {
		t.Errorf("status = %s, want PENDING", out.Event.Status)
	}
}

func TestApproveWithEmptyRoster(t *testing.T) {
	store := newFakeApprovalStore(0)
	h := NewModeratorHandler(store, nil)

	rec := decideRequest(h, true, "1", "10")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no moderators") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestDecideErrors(t *testing.T) {
	cases := []struct {
		name        string
		eventID     string
		moderatorID interface{}
		want        int
	}{
		{"unknown event", "99", "10", http.StatusNotFound},
		{"malformed id", "abc", "10", http.StatusBadRequest},
		{"missing identity", "1", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewModeratorHandler(newFakeApprovalStore(1), nil)
			rec := decideRequest(h, true, tc.eventID, tc.moderatorID)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestPendingListHidesDecidedEvents(t *testing.T) {
	store := newFakeApprovalStore(1)
	h := NewModeratorHandler(store, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "10")
	if err := h.Pending(c); err != nil {
		t.Fatalf("Pending: %v", err)
	}
	var resp struct {
		Events []repository.PendingEvent `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("pending events = %d, want 1", len(resp.Events))
	}

	decideRequest(h, true, "1", "10") // roster of one, approves, event leaves PENDING

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set("user_id", "10")
	if err := h.Pending(c); err != nil {
		t.Fatalf("Pending after approval: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Events) != 0 {
		t.Errorf("pending events after approval = %d, want 0", len(resp.Events))
	}
}
