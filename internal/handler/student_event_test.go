package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/model"
	"github.com/fcrit/campus-events/internal/repository"
)

// fakeRegStore mimics the registration repository's guards over an
// in-memory event.
type fakeRegStore struct {
	event      model.Event
	registered map[uint64]bool // user id set
	usedTxns   map[string]bool
}

func newFakeRegStore(paid bool) *fakeRegStore {
	ev := model.Event{ID: 1, Status: model.EventStatusApproved, ParticipantRegistration: true, IsPaid: paid}
	if paid {
		ev.PriceCents = 5000
	}
	return &fakeRegStore{event: ev, registered: map[uint64]bool{}, usedTxns: map[string]bool{}}
}

func (f *fakeRegStore) Register(_ context.Context, eventID, userID uint64, txnID string) (model.EventRegistration, error) {
	if eventID != f.event.ID {
		return model.EventRegistration{}, repository.ErrEventNotFound
	}
	if f.event.Status != model.EventStatusApproved || !f.event.ParticipantRegistration {
		return model.EventRegistration{}, repository.ErrRegistrationClosed
	}
	if f.registered[userID] {
		return model.EventRegistration{}, repository.ErrAlreadyRegistered
	}
	if f.event.IsPaid {
		if txnID == "" {
			return model.EventRegistration{}, repository.ErrTxnRequired
		}
		if f.usedTxns[txnID] {
			return model.EventRegistration{}, repository.ErrDuplicateTxn
		}
		f.usedTxns[txnID] = true
	}
	f.registered[userID] = true
	reg := model.EventRegistration{ID: uint64(len(f.registered)), EventID: eventID, UserID: userID, PaymentStatus: f.event.IsPaid}
	if f.event.IsPaid {
		reg.TxnID = &txnID
	}
	return reg, nil
}

func (f *fakeRegStore) TxnExists(_ context.Context, txnID string) (bool, error) {
	return f.usedTxns[txnID], nil
}

func (f *fakeRegStore) ListByUser(_ context.Context, userID uint64) ([]repository.RegistrationDetail, error) {
	if f.registered[userID] {
		return []repository.RegistrationDetail{{ID: 1, EventID: f.event.ID, PaymentStatus: f.event.IsPaid}}, nil
	}
	return []repository.RegistrationDetail{}, nil
}

type fakeLikeStore struct {
	likes map[uint64]map[uint64]bool // event id -> user set
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: map[uint64]map[uint64]bool{1: {}}}
}

func (f *fakeLikeStore) Toggle(_ context.Context, eventID, userID uint64) (bool, int, error) {
	users, ok := f.likes[eventID]
	if !ok {
		return false, 0, repository.ErrEventNotFound
	}
	if users[userID] {
		delete(users, userID)
	} else {
		users[userID] = true
	}
	return users[userID], len(users), nil
}

func (f *fakeLikeStore) LikedBy(_ context.Context, eventID, userID uint64) (bool, error) {
	users, ok := f.likes[eventID]
	if !ok {
		return false, repository.ErrEventNotFound
	}
	return users[userID], nil
}

func studentRequest(h *StudentHandler, method, body, eventID string, userID interface{}, fn func(echo.Context) error) *httptest.ResponseRecorder {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, "/", nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if eventID != "" {
		c.SetParamNames("id")
		c.SetParamValues(eventID)
	}
	if userID != nil {
		c.Set("user_id", userID)
	}
	_ = fn(c)
	return rec
}

func TestRegisterFreeEvent(t *testing.T) {
	h := NewStudentHandler(newFakeRegStore(false), newFakeLikeStore())
	rec := studentRequest(h, http.MethodPost, "{}", "1", "5", h.Register)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Registration model.EventRegistration `json:"registration"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Registration.TxnID != nil {
		t.Errorf("free event stored txn id %q", *resp.Registration.TxnID)
	}
	if resp.Registration.PaymentStatus {
		t.Error("free event marked as paid")
	}
}

func TestRegisterPaidEvent(t *testing.T) {
	store := newFakeRegStore(true)
	h := NewStudentHandler(store, newFakeLikeStore())

	cases := []struct {
		name   string
		body   string
		userID string
		want   int
	}{
		{"missing txn id", `{}`, "5", http.StatusBadRequest},
		{"valid txn id", `{"txn_id":"123456789012"}`, "5", http.StatusCreated},
		{"same user again", `{"txn_id":"999999999999"}`, "5", http.StatusConflict},
		{"reused txn id", `{"txn_id":"123456789012"}`, "6", http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := studentRequest(h, http.MethodPost, tc.body, "1", tc.userID, h.Register)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestRegisterClosedEvent(t *testing.T) {
	store := newFakeRegStore(false)
	store.event.Status = model.EventStatusPending
	h := NewStudentHandler(store, newFakeLikeStore())
	rec := studentRequest(h, http.MethodPost, "{}", "1", "5", h.Register)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestToggleLike(t *testing.T) {
	h := NewStudentHandler(newFakeRegStore(false), newFakeLikeStore())

	rec := studentRequest(h, http.MethodPost, "", "1", "5", h.ToggleLike)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Liked bool `json:"liked"`
		Likes int  `json:"likes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Liked || resp.Likes != 1 {
		t.Errorf("first toggle = %+v, want liked with count 1", resp)
	}

	rec = studentRequest(h, http.MethodPost, "", "1", "5", h.ToggleLike)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Liked || resp.Likes != 0 {
		t.Errorf("second toggle = %+v, want unliked with count 0", resp)
	}

	rec = studentRequest(h, http.MethodGet, "", "1", "5", h.Liked)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"liked":false`) {
		t.Errorf("liked state: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestVerifyTxn(t *testing.T) {
	store := newFakeRegStore(true)
	store.usedTxns["123456789012"] = true
	h := NewStudentHandler(store, newFakeLikeStore())

	rec := studentRequest(h, http.MethodPost, `{"txn_id":"123456789012"}`, "", nil, h.VerifyTxn)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"used":true`) {
		t.Errorf("used txn: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = studentRequest(h, http.MethodPost, `{"txn_id":"555555555555"}`, "", nil, h.VerifyTxn)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"used":false`) {
		t.Errorf("fresh txn: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = studentRequest(h, http.MethodPost, `{}`, "", nil, h.VerifyTxn)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing txn: status %d, want 400", rec.Code)
	}
}

func TestExtractTxn(t *testing.T) {
	h := NewStudentHandler(newFakeRegStore(true), newFakeLikeStore())

	rec := studentRequest(h, http.MethodPost, `{"text":"Wallet Txn ID: 123456789012"}`, "", nil, h.ExtractTxn)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "123456789012") {
		t.Errorf("status %d body %s", rec.Code, rec.Body.String())
	}
	rec = studentRequest(h, http.MethodPost, `{"text":"payment done"}`, "", nil, h.ExtractTxn)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("no id: status %d, want 422", rec.Code)
	}
}
