package model

import "time"

// Role names stored in the users.role column and carried in the JWT
// "role" claim. Moderator and admin identities are not user rows; their
// roles exist only as claims issued by the PIN login endpoints.
const (
	RoleStudent   = "STUDENT"
	RoleOrganizer = "ORGANIZER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table. Students and organizers share the table; the optional profile
// columns are populated depending on the role. Handlers define separate
// response types with JSON tags, so none are attached here.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  Role         – STUDENT or ORGANIZER.
//  RollNo       – student roll number (nil for organizers).
//  Department   – student department (nil for organizers).
//  Semester     – current semester (nil for organizers).
//  PhoneNo      – optional contact number.
//  CollegeEmail – optional institute email.
//  Club         – club the organizer belongs to (nil for students).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Name         string    // users.name
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	RollNo       *string   // users.roll_no (nullable)
	Department   *string   // users.department (nullable)
	Semester     *uint8    // users.semester (nullable)
	PhoneNo      *string   // users.phone_no (nullable)
	CollegeEmail *string   // users.college_email (nullable)
	Club         *string   // users.club (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and carries metadata for expiry and
// revocation. Only the SHA-256 hash of the raw token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
