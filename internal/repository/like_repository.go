package repository

import (
	"context"
	"database/sql"
)

// LikeRepo persists the per-user event like toggle.
type LikeRepo struct{ db *sql.DB }

func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{db: db} }

// Toggle flips the like state for (eventID, userID) in one transaction
// and returns the resulting state plus the event's new like count.
// Toggling twice restores the original state; a concurrent duplicate
// insert collapses onto the unique (event_id, user_id) key and is
// reported as already liked rather than an error.
func (r *LikeRepo) Toggle(ctx context.Context, eventID, userID uint64) (liked bool, count int, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM events WHERE id=?)", eventID).Scan(&exists)
	if err != nil {
		return false, 0, err
	}
	if !exists {
		return false, 0, ErrEventNotFound
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM event_likes WHERE event_id=? AND user_id=?", eventID, userID)
	if err != nil {
		return false, 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}
	if removed == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO event_likes (event_id, user_id) VALUES (?,?)", eventID, userID); err != nil {
			if !isDuplicateKey(err) {
				return false, 0, err
			}
			// Lost a race with another toggle of the same pair; the row
			// exists, which is the state we were about to produce.
		}
		liked = true
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM event_likes WHERE event_id=?", eventID).Scan(&count); err != nil {
		return false, 0, err
	}
	if err := tx.Commit(); err != nil {
		return false, 0, err
	}
	committed = true
	return liked, count, nil
}

// CountByEvent returns the number of likes an event has.
func (r *LikeRepo) CountByEvent(ctx context.Context, eventID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM event_likes WHERE event_id=?", eventID).Scan(&n)
	return n, err
}

// LikedBy reports whether a user currently likes an event.
func (r *LikeRepo) LikedBy(ctx context.Context, eventID, userID uint64) (bool, error) {
	var liked bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM event_likes WHERE event_id=? AND user_id=?)",
		eventID, userID).Scan(&liked)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return liked, err
}
