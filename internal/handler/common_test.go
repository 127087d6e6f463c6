package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/fcrit/campus-events/internal/repository"
)

func TestRepoStatusSentinels(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{repository.ErrEventNotFound, http.StatusNotFound},
		{repository.ErrModeratorNotFound, http.StatusNotFound},
		{repository.ErrUserNotFound, http.StatusNotFound},
		{repository.ErrEmailExists, http.StatusConflict},
		{repository.ErrNoModerators, http.StatusConflict},
		{repository.ErrDuplicateTxn, http.StatusConflict},
		{repository.ErrTxnRequired, http.StatusBadRequest},
	}
	for _, tt := range tests {
		code, msg, ok := repoStatus(tt.err)
		if !ok {
			t.Errorf("repoStatus(%v) not recognized as a sentinel", tt.err)
			continue
		}
		if code != tt.wantCode {
			t.Errorf("repoStatus(%v) = %d, want %d", tt.err, code, tt.wantCode)
		}
		if msg == "" {
			t.Errorf("repoStatus(%v) returned empty message", tt.err)
		}
	}
	if _, _, ok := repoStatus(errors.New("disk on fire")); ok {
		t.Error("repoStatus recognized an unknown error as a sentinel")
	}
}
