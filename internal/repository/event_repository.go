package repository

import (
	"context"
	"database/sql"

	"github.com/fcrit/campus-events/internal/model"
)

// EventRepo provides CRUD operations for events. Status changes are the
// business of ApprovalRepo; nothing here moves an event out of PENDING
// except the admin's explicit edit surface.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `id,name,description,status,logo,banner_image,organizer_id,participant_registration,
	category,featured,mode,website,is_paid,price_cents,qr_image,event_date,created_at,updated_at`

// NewEventInput carries the organizer-supplied fields for creating or
// updating an event. Status is never an input: new events always start
// PENDING and only the moderation workflow or an admin edit moves them.
type NewEventInput struct {
	Name                    string
	Description             *string
	Logo                    *string
	BannerImage             *string
	ParticipantRegistration bool
	Category                string
	Mode                    *string
	Website                 *string
	IsPaid                  bool
	PriceCents              uint32
	QRImage                 *string
	EventDate               string
}

// Create inserts a pending event owned by the organizer and returns its id.
func (r *EventRepo) Create(ctx context.Context, organizerID uint64, in NewEventInput) (uint64, error) {
	if !in.IsPaid {
		in.PriceCents = 0
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (name, description, status, logo, banner_image, organizer_id, participant_registration,
		                     category, mode, website, is_paid, price_cents, qr_image, event_date)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		in.Name, in.Description, model.EventStatusPending, in.Logo, in.BannerImage, organizerID,
		in.ParticipantRegistration, in.Category, in.Mode, in.Website, in.IsPaid, in.PriceCents,
		in.QRImage, in.EventDate)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single event.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	ev, err := scanEvent(r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return ev, ErrEventNotFound
	}
	return ev, err
}

// ListByOrganizer returns all events created by one organizer, newest first.
func (r *EventRepo) ListByOrganizer(ctx context.Context, organizerID uint64) ([]model.Event, error) {
	return r.list(ctx,
		"SELECT "+eventColumns+" FROM events WHERE organizer_id=? ORDER BY created_at DESC", organizerID)
}

// ListApproved returns the public event feed: approved events, featured
// first, newest within each group. When category is non-empty the feed
// is filtered to that category.
func (r *EventRepo) ListApproved(ctx context.Context, category string) ([]model.Event, error) {
	if category != "" {
		return r.list(ctx,
			"SELECT "+eventColumns+" FROM events WHERE status=? AND category=? ORDER BY featured DESC, created_at DESC",
			model.EventStatusApproved, category)
	}
	return r.list(ctx,
		"SELECT "+eventColumns+" FROM events WHERE status=? ORDER BY featured DESC, created_at DESC",
		model.EventStatusApproved)
}

// ListAll returns every event regardless of status. Admin panel only.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	return r.list(ctx, "SELECT "+eventColumns+" FROM events ORDER BY created_at DESC")
}

// Update overwrites an event's descriptive fields. When ownerID is
// non-zero the event must belong to that organizer; the admin passes
// zero to bypass the ownership check.
func (r *EventRepo) Update(ctx context.Context, id, ownerID uint64, in NewEventInput) error {
	if ownerID != 0 {
		var actual uint64
		err := r.db.QueryRowContext(ctx, "SELECT organizer_id FROM events WHERE id=?", id).Scan(&actual)
		if err == sql.ErrNoRows {
			return ErrEventNotFound
		}
		if err != nil {
			return err
		}
		if actual != ownerID {
			return ErrForbidden
		}
	}
	if !in.IsPaid {
		in.PriceCents = 0
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET name=?, description=?, logo=?, banner_image=?, participant_registration=?,
		        category=?, mode=?, website=?, is_paid=?, price_cents=?, qr_image=?, event_date=?, updated_at=NOW()
		 WHERE id=?`,
		in.Name, in.Description, in.Logo, in.BannerImage, in.ParticipantRegistration,
		in.Category, in.Mode, in.Website, in.IsPaid, in.PriceCents, in.QRImage, in.EventDate, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 && ownerID == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ToggleFeatured flips the featured flag and returns the new value.
func (r *EventRepo) ToggleFeatured(ctx context.Context, id uint64) (bool, error) {
	var featured bool
	err := r.db.QueryRowContext(ctx, "SELECT featured FROM events WHERE id=?", id).Scan(&featured)
	if err == sql.ErrNoRows {
		return false, ErrEventNotFound
	}
	if err != nil {
		return false, err
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE events SET featured=?, updated_at=NOW() WHERE id=?", !featured, id)
	if err != nil {
		return false, err
	}
	return !featured, nil
}

// Delete removes an event and all dependent rows (approvals,
// registrations, likes) in one transaction.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, q := range []string{
		"DELETE FROM event_approvals WHERE event_id=?",
		"DELETE FROM event_registrations WHERE event_id=?",
		"DELETE FROM event_likes WHERE event_id=?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *EventRepo) list(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func scanEvent(s rowScanner) (model.Event, error) {
	var ev model.Event
	err := s.Scan(&ev.ID, &ev.Name, &ev.Description, &ev.Status, &ev.Logo, &ev.BannerImage,
		&ev.OrganizerID, &ev.ParticipantRegistration, &ev.Category, &ev.Featured, &ev.Mode,
		&ev.Website, &ev.IsPaid, &ev.PriceCents, &ev.QRImage, &ev.EventDate,
		&ev.CreatedAt, &ev.UpdatedAt)
	return ev, err
}
