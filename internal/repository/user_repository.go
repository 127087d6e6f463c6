package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fcrit/campus-events/internal/model"
	"github.com/fcrit/campus-events/internal/utils"
)

// UserRepo provides persistence for student and organizer accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

const userColumns = "id,email,name,password_hash,role,roll_no,department,semester,phone_no,college_email,club,created_at,updated_at"

// NewUserInput carries the fields accepted when creating an account.
// Profile pointers stay nil for the fields that do not apply to the
// account's role.
type NewUserInput struct {
	Email        string
	Name         string
	Password     string
	Role         string
	RollNo       *string
	Department   *string
	Semester     *uint8
	PhoneNo      *string
	CollegeEmail *string
	Club         *string
}

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, in NewUserInput, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	hash, err := utils.HashSecret(in.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, name, password_hash, role, roll_no, department, semester, phone_no, college_email, club)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		email, in.Name, hash, in.Role, in.RollNo, in.Department, in.Semester, in.PhoneNo, in.CollegeEmail, in.Club)
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

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns all users ordered by creation time, newest first. Used
// by the admin panel.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfile overwrites the mutable profile fields of a user. Role
// and password are not touched here; the admin resets passwords through
// a separate path.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, in NewUserInput) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET name=?, roll_no=?, department=?, semester=?, phone_no=?, college_email=?, club=?, updated_at=NOW()
		 WHERE id=?`,
		in.Name, in.RollNo, in.Department, in.Semester, in.PhoneNo, in.CollegeEmail, in.Club, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a user together with their registrations and likes.
// The cascade is explicit because the schema does not rely on foreign
// key actions for it.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
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
	if _, err := tx.ExecContext(ctx, "DELETE FROM event_registrations WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM event_likes WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&u.RollNo, &u.Department, &u.Semester, &u.PhoneNo, &u.CollegeEmail, &u.Club,
		&u.CreatedAt, &u.UpdatedAt)
	return u, err
}
