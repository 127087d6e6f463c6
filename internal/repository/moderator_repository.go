package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fcrit/campus-events/internal/model"
	"github.com/fcrit/campus-events/internal/utils"
)

// ModeratorRepo manages the reviewer roster. The roster size is the
// unanimity denominator for the approval workflow, so deleting a
// moderator can retroactively lower the bar for pending events; the
// decision path always recounts the roster inside its own transaction.
type ModeratorRepo struct{ DB *sql.DB }

func NewModeratorRepo(db *sql.DB) *ModeratorRepo { return &ModeratorRepo{DB: db} }

var ErrModeratorNotFound = errors.New("moderator not found")

// Create inserts a moderator with a bcrypt-hashed PIN and returns the
// new id.
func (r *ModeratorRepo) Create(ctx context.Context, email, name, pin string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashSecret(pin, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO moderators (email, name, pin_hash) VALUES (?,?,?)",
		email, name, hash)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a moderator by normalized email for PIN login.
func (r *ModeratorRepo) GetByEmail(ctx context.Context, email string) (model.Moderator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var m model.Moderator
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,name,pin_hash,created_at FROM moderators WHERE email=? LIMIT 1",
		email).Scan(&m.ID, &m.Email, &m.Name, &m.PINHash, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Moderator{}, ErrModeratorNotFound
	}
	return m, err
}

// GetByID fetches a moderator by id.
func (r *ModeratorRepo) GetByID(ctx context.Context, id uint64) (model.Moderator, error) {
	var m model.Moderator
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,name,pin_hash,created_at FROM moderators WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Email, &m.Name, &m.PINHash, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Moderator{}, ErrModeratorNotFound
	}
	return m, err
}

// List returns the full roster ordered by name.
func (r *ModeratorRepo) List(ctx context.Context) ([]model.Moderator, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,name,pin_hash,created_at FROM moderators ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	mods := make([]model.Moderator, 0)
	for rows.Next() {
		var m model.Moderator
		if err := rows.Scan(&m.ID, &m.Email, &m.Name, &m.PINHash, &m.CreatedAt); err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}

// Count returns the roster size.
func (r *ModeratorRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM moderators").Scan(&n)
	return n, err
}

// Update overwrites a moderator's name and email, and rotates the PIN
// when a non-empty one is supplied.
func (r *ModeratorRepo) Update(ctx context.Context, id uint64, email, name, pin string, cost int) error {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		res sql.Result
		err error
	)
	if pin != "" {
		var hash string
		hash, err = utils.HashSecret(pin, cost)
		if err != nil {
			return err
		}
		res, err = r.DB.ExecContext(ctx,
			"UPDATE moderators SET email=?, name=?, pin_hash=? WHERE id=?", email, name, hash, id)
	} else {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE moderators SET email=?, name=? WHERE id=?", email, name, id)
	}
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrModeratorNotFound
	}
	return nil
}

// Delete removes a moderator and their approval ledger rows in one
// transaction. Pending events are left untouched: the next decision on
// each will recount against the shrunken roster.
func (r *ModeratorRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM event_approvals WHERE moderator_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM moderators WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrModeratorNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
