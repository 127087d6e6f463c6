package model

import "time"

// EventApproval is a row in the `event_approvals` ledger: one row per
// (event, moderator) pair holding that moderator's latest decision. A
// unique key on the pair makes the one-row invariant a database fact
// rather than an application assumption; revisions update in place.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – event under review.
//  ModeratorID – moderator who decided.
//  IsApproved  – latest decision, not cumulative history.
//  ApprovedAt  – when the latest decision was recorded.
type EventApproval struct {
	ID          uint64    // event_approvals.id
	EventID     uint64    // event_approvals.event_id
	ModeratorID uint64    // event_approvals.moderator_id
	IsApproved  bool      // event_approvals.is_approved
	ApprovedAt  time.Time // event_approvals.approved_at
}

// NextStatus applies the moderation rule to a single recorded decision
// and returns the status the event should hold afterwards. approvals is
// the number of ledger rows with IsApproved=true after the decision was
// recorded, roster the current moderator count.
//
// The rule is deliberately asymmetric: approval requires unanimity
// (approvals >= roster, roster > 0) while a single rejection cancels
// outright. Both APPROVED and CANCELLED are terminal, so any decision
// against a non-pending event leaves the status unchanged: a repeated
// approval of an already-approved event is a no-op, and a cancelled
// event can never be revived by the approval path.
func NextStatus(current string, approved bool, approvals, roster int) (next string, changed bool) {
	if current != EventStatusPending {
		return current, false
	}
	if !approved {
		return EventStatusCancelled, true
	}
	if roster > 0 && approvals >= roster {
		return EventStatusApproved, true
	}
	return current, false
}
