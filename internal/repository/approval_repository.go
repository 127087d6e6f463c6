package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fcrit/campus-events/internal/model"
)

// ApprovalRepo owns the event_approvals ledger and the moderation state
// machine built on top of it. RecordDecision is the only writer of
// PENDING→APPROVED and PENDING→CANCELLED transitions outside the admin
// edit surface.
type ApprovalRepo struct{ db *sql.DB }

func NewApprovalRepo(db *sql.DB) *ApprovalRepo { return &ApprovalRepo{db: db} }

// DecisionOutcome reports what a recorded decision did to the event.
type DecisionOutcome struct {
	Event          model.Event `json:"event"`
	PreviousStatus string      `json:"previous_status"`
	Approvals      int         `json:"approvals"`
	Roster         int         `json:"total_moderators"`
	Transitioned   bool        `json:"transitioned"`
}

// RecordDecision upserts one moderator's decision for one event and
// applies the moderation rule, all within a single transaction. The
// event row is locked with SELECT ... FOR UPDATE so two moderators
// deciding concurrently serialize instead of both reading a stale
// approval count and missing the final transition.
//
// Approving requires a non-empty roster; ErrNoModerators rolls the
// whole decision back. A decision against an event that already left
// PENDING is still recorded in the ledger (it is that moderator's
// latest word) but never changes the status.
func (r *ApprovalRepo) RecordDecision(ctx context.Context, eventID, moderatorID uint64, approved bool) (DecisionOutcome, error) {
	var out DecisionOutcome
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ev, err := scanEvent(tx.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? FOR UPDATE", eventID))
	if err == sql.ErrNoRows {
		return out, ErrEventNotFound
	}
	if err != nil {
		return out, err
	}
	out.PreviousStatus = ev.Status

	var roster int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM moderators").Scan(&roster); err != nil {
		return out, err
	}
	if approved && roster == 0 {
		// An empty roster would make unanimity trivially true; refuse
		// to approve anything until at least one moderator exists.
		return out, ErrNoModerators
	}
	out.Roster = roster

	// Upsert the ledger row; the unique key on (event_id, moderator_id)
	// guarantees at most one row per pair.
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO event_approvals (event_id, moderator_id, is_approved, approved_at)
		 VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE is_approved=VALUES(is_approved), approved_at=VALUES(approved_at)`,
		eventID, moderatorID, approved, now); err != nil {
		return out, err
	}

	var approvals int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM event_approvals WHERE event_id=? AND is_approved=TRUE",
		eventID).Scan(&approvals); err != nil {
		return out, err
	}
	out.Approvals = approvals

	next, changed := model.NextStatus(ev.Status, approved, approvals, roster)
	if changed {
		// The status guard keeps the transition one-way: only a row
		// still in PENDING can move.
		res, err := tx.ExecContext(ctx,
			"UPDATE events SET status=?, updated_at=NOW() WHERE id=? AND status=?",
			next, eventID, model.EventStatusPending)
		if err != nil {
			return out, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return out, err
		}
		changed = n > 0
	}
	if changed {
		ev.Status = next
	}
	out.Event = ev
	out.Transitioned = changed

	if err := tx.Commit(); err != nil {
		return out, err
	}
	committed = true
	return out, nil
}

// PendingEvent annotates a pending event with its approval progress for
// the moderator dashboard. This is a reporting view; whether an event
// actually transitions is decided only by RecordDecision.
type PendingEvent struct {
	Event           model.Event `json:"event"`
	Approvals       int         `json:"approvals"`
	TotalModerators int         `json:"total_moderators"`
	ApprovedByMe    bool        `json:"approved_by_current_moderator"`
}

// ListPending returns all pending events with the current approve
// count, roster size and whether the requesting moderator has already
// approved each one.
func (r *ApprovalRepo) ListPending(ctx context.Context, moderatorID uint64) ([]PendingEvent, error) {
	var roster int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM moderators").Scan(&roster); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+`,
		        (SELECT COUNT(*) FROM event_approvals a WHERE a.event_id=events.id AND a.is_approved=TRUE),
		        EXISTS (SELECT 1 FROM event_approvals a
		                WHERE a.event_id=events.id AND a.moderator_id=? AND a.is_approved=TRUE)
		 FROM events WHERE status=? ORDER BY created_at`,
		moderatorID, model.EventStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	pending := make([]PendingEvent, 0)
	for rows.Next() {
		var p PendingEvent
		if err := rows.Scan(&p.Event.ID, &p.Event.Name, &p.Event.Description, &p.Event.Status,
			&p.Event.Logo, &p.Event.BannerImage, &p.Event.OrganizerID, &p.Event.ParticipantRegistration,
			&p.Event.Category, &p.Event.Featured, &p.Event.Mode, &p.Event.Website, &p.Event.IsPaid,
			&p.Event.PriceCents, &p.Event.QRImage, &p.Event.EventDate, &p.Event.CreatedAt, &p.Event.UpdatedAt,
			&p.Approvals, &p.ApprovedByMe); err != nil {
			return nil, err
		}
		p.TotalModerators = roster
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// HistoryEntry is one past decision by a moderator joined with a
// summary of the event it concerned.
type HistoryEntry struct {
	EventID    uint64    `json:"event_id"`
	EventName  string    `json:"event_name"`
	Status     string    `json:"event_status"`
	IsApproved bool      `json:"is_approved"`
	DecidedAt  time.Time `json:"decided_at"`
}

// History returns a moderator's decisions, newest first.
func (r *ApprovalRepo) History(ctx context.Context, moderatorID uint64) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.name, e.status, a.is_approved, a.approved_at
		 FROM event_approvals a
		 JOIN events e ON e.id = a.event_id
		 WHERE a.moderator_id=?
		 ORDER BY a.approved_at DESC`,
		moderatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	history := make([]HistoryEntry, 0)
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.EventID, &h.EventName, &h.Status, &h.IsApproved, &h.DecidedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// ModeratorDecision is one moderator's decision on a specific event,
// used by the per-event status view.
type ModeratorDecision struct {
	ModeratorID   uint64    `json:"moderator_id"`
	ModeratorName string    `json:"moderator_name"`
	IsApproved    bool      `json:"is_approved"`
	DecidedAt     time.Time `json:"decided_at"`
}

// EventStatus describes where one event stands in the workflow.
type EventStatus struct {
	Event           model.Event         `json:"event"`
	Decisions       []ModeratorDecision `json:"decisions"`
	TotalModerators int                 `json:"total_moderators"`
	AwaitingCount   int                 `json:"awaiting_count"`
}

// StatusForEvent returns the decisions recorded so far for an event,
// the roster size and how many moderators have yet to vote.
func (r *ApprovalRepo) StatusForEvent(ctx context.Context, eventID uint64) (EventStatus, error) {
	var st EventStatus
	ev, err := scanEvent(r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", eventID))
	if err == sql.ErrNoRows {
		return st, ErrEventNotFound
	}
	if err != nil {
		return st, err
	}
	st.Event = ev
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM moderators").Scan(&st.TotalModerators); err != nil {
		return st, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.moderator_id, m.name, a.is_approved, a.approved_at
		 FROM event_approvals a
		 JOIN moderators m ON m.id = a.moderator_id
		 WHERE a.event_id=?
		 ORDER BY a.approved_at`,
		eventID)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	st.Decisions = make([]ModeratorDecision, 0)
	for rows.Next() {
		var d ModeratorDecision
		if err := rows.Scan(&d.ModeratorID, &d.ModeratorName, &d.IsApproved, &d.DecidedAt); err != nil {
			return st, err
		}
		st.Decisions = append(st.Decisions, d)
	}
	if err := rows.Err(); err != nil {
		return st, err
	}
	st.AwaitingCount = st.TotalModerators - len(st.Decisions)
	if st.AwaitingCount < 0 {
		st.AwaitingCount = 0
	}
	return st, nil
}

// ApprovalStat aggregates how many approvals each moderator has issued.
// Admin reporting only.
type ApprovalStat struct {
	ModeratorID    uint64 `json:"moderator_id"`
	ModeratorName  string `json:"moderator_name"`
	ModeratorEmail string `json:"moderator_email"`
	ApprovalCount  int    `json:"approval_count"`
}

// Stats returns per-moderator approval counts.
func (r *ApprovalRepo) Stats(ctx context.Context) ([]ApprovalStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.name, m.email, COUNT(a.id)
		 FROM moderators m
		 LEFT JOIN event_approvals a ON a.moderator_id = m.id AND a.is_approved=TRUE
		 GROUP BY m.id, m.name, m.email
		 ORDER BY m.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats := make([]ApprovalStat, 0)
	for rows.Next() {
		var s ApprovalStat
		if err := rows.Scan(&s.ModeratorID, &s.ModeratorName, &s.ModeratorEmail, &s.ApprovalCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
