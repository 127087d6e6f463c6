package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fcrit/campus-events/internal/model"
)

// RegistrationRepo persists event registrations and enforces the
// duplicate-transaction guard. The guard is advisory string-level
// deduplication of the user-supplied proof, not payment verification.
type RegistrationRepo struct{ db *sql.DB }

func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// Register creates a registration for (eventID, userID) in a single
// transaction. For paid events the supplied transaction id must not
// appear on any existing registration; the unique index on txn_id backs
// the in-transaction check, so two users racing the same id cannot both
// get in. PaymentStatus is set true only when a txn id was accepted.
func (r *RegistrationRepo) Register(ctx context.Context, eventID, userID uint64, txnID string) (model.EventRegistration, error) {
	var reg model.EventRegistration
	txnID = strings.TrimSpace(txnID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return reg, err
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
		return reg, ErrEventNotFound
	}
	if err != nil {
		return reg, err
	}
	if ev.Status != model.EventStatusApproved || !ev.ParticipantRegistration {
		return reg, ErrRegistrationClosed
	}
	if ev.IsPaid && txnID == "" {
		return reg, ErrTxnRequired
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM event_registrations WHERE event_id=? AND user_id=?)",
		eventID, userID).Scan(&exists); err != nil {
		return reg, err
	}
	if exists {
		return reg, ErrAlreadyRegistered
	}

	var txnArg any // NULL for free events so the unique index ignores them
	paid := false
	if ev.IsPaid {
		if err := tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM event_registrations WHERE txn_id=? FOR UPDATE)",
			txnID).Scan(&exists); err != nil {
			return reg, err
		}
		if exists {
			return reg, ErrDuplicateTxn
		}
		txnArg = txnID
		paid = true
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO event_registrations (event_id, user_id, registered_at, payment_status, txn_id) VALUES (?,?,?,?,?)",
		eventID, userID, now, paid, txnArg)
	if err != nil {
		if isDuplicateKey(err) {
			// Raced by another insert; the constraint tells us which.
			if strings.Contains(err.Error(), "txn") {
				return reg, ErrDuplicateTxn
			}
			return reg, ErrAlreadyRegistered
		}
		return reg, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return reg, err
	}
	if err := tx.Commit(); err != nil {
		return reg, err
	}
	committed = true

	reg = model.EventRegistration{
		ID:            uint64(id),
		EventID:       eventID,
		UserID:        userID,
		RegisteredAt:  now,
		PaymentStatus: paid,
	}
	if paid {
		reg.TxnID = &txnID
	}
	return reg, nil
}

// TxnExists reports whether a transaction id is already recorded on any
// registration. Exposed for the advisory verify-transaction endpoint.
func (r *RegistrationRepo) TxnExists(ctx context.Context, txnID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM event_registrations WHERE txn_id=?)",
		strings.TrimSpace(txnID)).Scan(&exists)
	return exists, err
}

// RegistrationDetail joins a registration with the event it is for.
type RegistrationDetail struct {
	ID            uint64    `json:"id"`
	EventID       uint64    `json:"event_id"`
	EventName     string    `json:"event_name"`
	EventDate     string    `json:"event_date"`
	RegisteredAt  time.Time `json:"registered_at"`
	PaymentStatus bool      `json:"payment_status"`
}

// ListByUser returns a user's registrations, newest first.
func (r *RegistrationRepo) ListByUser(ctx context.Context, userID uint64) ([]RegistrationDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, e.id, e.name, e.event_date, g.registered_at, g.payment_status
		 FROM event_registrations g
		 JOIN events e ON e.id = g.event_id
		 WHERE g.user_id=?
		 ORDER BY g.registered_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	regs := make([]RegistrationDetail, 0)
	for rows.Next() {
		var d RegistrationDetail
		if err := rows.Scan(&d.ID, &d.EventID, &d.EventName, &d.EventDate, &d.RegisteredAt, &d.PaymentStatus); err != nil {
			return nil, err
		}
		regs = append(regs, d)
	}
	return regs, rows.Err()
}

// CountByEvent returns how many users registered for an event.
func (r *RegistrationRepo) CountByEvent(ctx context.Context, eventID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM event_registrations WHERE event_id=?", eventID).Scan(&n)
	return n, err
}
