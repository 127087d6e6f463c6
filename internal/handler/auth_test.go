package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/fcrit/campus-events/internal/config"
	"github.com/fcrit/campus-events/internal/model"
	"github.com/fcrit/campus-events/internal/repository"
	"github.com/fcrit/campus-events/internal/utils"
)

// fakeModeratorDirectory serves a fixed roster keyed by email and
// reports unknown emails the way the database-backed repository does.
type fakeModeratorDirectory struct {
	mods map[string]model.Moderator
}

func (f *fakeModeratorDirectory) GetByEmail(_ context.Context, email string) (model.Moderator, error) {
	m, ok := f.mods[email]
	if !ok {
		return model.Moderator{}, repository.ErrModeratorNotFound
	}
	return m, nil
}

func moderatorLoginRequest(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/moderator/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.ModeratorLogin(e.NewContext(req, rec)); err != nil {
		t.Fatalf("ModeratorLogin returned error: %v", err)
	}
	return rec
}

func newPINAuthHandler(t *testing.T, pin string) *AuthHandler {
	t.Helper()
	hash, err := utils.HashSecret(pin, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	dir := &fakeModeratorDirectory{mods: map[string]model.Moderator{
		"mod@fcrit.ac.in": {ID: 3, Email: "mod@fcrit.ac.in", Name: "Reviewer", PINHash: hash},
	}}
	return &AuthHandler{
		Cfg:        config.Config{JWTSecret: "test-secret", AccessTTLMin: 5},
		Moderators: dir,
	}
}

func TestModeratorLoginUnknownEmail(t *testing.T) {
	h := newPINAuthHandler(t, "4321")
	rec := moderatorLoginRequest(t, h, `{"email":"nobody@fcrit.ac.in","pin":"4321"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusUnauthorized, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("body = %s, want invalid credentials", rec.Body.String())
	}
}

func TestModeratorLoginWrongPIN(t *testing.T) {
	h := newPINAuthHandler(t, "4321")
	rec := moderatorLoginRequest(t, h, `{"email":"mod@fcrit.ac.in","pin":"9999"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusUnauthorized, rec.Body.String())
	}
}

func TestModeratorLoginIssuesModeratorToken(t *testing.T) {
	h := newPINAuthHandler(t, "4321")
	rec := moderatorLoginRequest(t, h, `{"email":"Mod@FCRIT.ac.in","pin":"4321"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Moderator struct {
			ID uint64 `json:"id"`
		} `json:"moderator"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Moderator.ID != 3 {
		t.Errorf("moderator id = %d, want 3", resp.Moderator.ID)
	}
	if resp.Access.Token == "" {
		t.Error("access token missing from response")
	}
}
