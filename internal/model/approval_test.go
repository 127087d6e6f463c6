package model

import "testing"

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		approved    bool
		approvals   int
		roster      int
		wantStatus  string
		wantChanged bool
	}{
		{
			name:       "first approval of three stays pending",
			current:    EventStatusPending,
			approved:   true,
			approvals:  1,
			roster:     3,
			wantStatus: EventStatusPending,
		},
		{
			name:       "second approval of three stays pending",
			current:    EventStatusPending,
			approved:   true,
			approvals:  2,
			roster:     3,
			wantStatus: EventStatusPending,
		},
		{
			name:        "final approval reaches unanimity",
			current:     EventStatusPending,
			approved:    true,
			approvals:   3,
			roster:      3,
			wantStatus:  EventStatusApproved,
			wantChanged: true,
		},
		{
			name:        "extra approvals beyond roster still approve",
			current:     EventStatusPending,
			approved:    true,
			approvals:   4,
			roster:      3,
			wantStatus:  EventStatusApproved,
			wantChanged: true,
		},
		{
			name:        "single rejection cancels regardless of prior approvals",
			current:     EventStatusPending,
			approved:    false,
			approvals:   2,
			roster:      3,
			wantStatus:  EventStatusCancelled,
			wantChanged: true,
		},
		{
			name:        "rejection with no votes cancels",
			current:     EventStatusPending,
			approved:    false,
			approvals:   0,
			roster:      5,
			wantStatus:  EventStatusCancelled,
			wantChanged: true,
		},
		{
			name:       "empty roster never approves",
			current:    EventStatusPending,
			approved:   true,
			approvals:  0,
			roster:     0,
			wantStatus: EventStatusPending,
		},
		{
			name:       "re-approval of an approved event is a no-op",
			current:    EventStatusApproved,
			approved:   true,
			approvals:  3,
			roster:     3,
			wantStatus: EventStatusApproved,
		},
		{
			name:       "approval cannot revive a cancelled event",
			current:    EventStatusCancelled,
			approved:   true,
			approvals:  3,
			roster:     3,
			wantStatus: EventStatusCancelled,
		},
		{
			name:       "rejection of a cancelled event stays cancelled",
			current:    EventStatusCancelled,
			approved:   false,
			approvals:  0,
			roster:     3,
			wantStatus: EventStatusCancelled,
		},
		{
			name:       "single moderator roster approves on first vote",
			current:    EventStatusPending,
			approved:   true,
			approvals:  1,
			roster:     1,
			wantStatus:  EventStatusApproved,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := NextStatus(tt.current, tt.approved, tt.approvals, tt.roster)
			if got != tt.wantStatus {
				t.Errorf("NextStatus() status = %q, want %q", got, tt.wantStatus)
			}
			if changed != tt.wantChanged {
				t.Errorf("NextStatus() changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

// Walks a three-moderator event end to end: M1 and M2
// approve without effect, M3's approval flips the event to approved.
func TestNextStatusUnanimousWalkthrough(t *testing.T) {
	status := EventStatusPending
	for votes := 1; votes <= 3; votes++ {
		next, changed := NextStatus(status, true, votes, 3)
		if votes < 3 {
			if changed || next != EventStatusPending {
				t.Fatalf("after %d of 3 approvals: got (%q, %v), want still pending", votes, next, changed)
			}
		} else if !changed || next != EventStatusApproved {
			t.Fatalf("after 3 of 3 approvals: got (%q, %v), want approved", next, changed)
		}
		status = next
	}
}

// M1 approves, M2 rejects: the event cancels immediately and M3's later
// approval cannot bring it back.
func TestNextStatusVetoWalkthrough(t *testing.T) {
	status := EventStatusPending

	status, _ = NextStatus(status, true, 1, 3)
	if status != EventStatusPending {
		t.Fatalf("after first approval: got %q, want pending", status)
	}

	status, changed := NextStatus(status, false, 1, 3)
	if !changed || status != EventStatusCancelled {
		t.Fatalf("after rejection: got (%q, %v), want cancelled", status, changed)
	}

	status, changed = NextStatus(status, true, 2, 3)
	if changed || status != EventStatusCancelled {
		t.Fatalf("approval after cancellation: got (%q, %v), want still cancelled", status, changed)
	}
}
