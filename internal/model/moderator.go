package model

import "time"

// Moderator is a reviewer identity stored in the `moderators` table.
// Moderators are created by the admin and log in with an email plus a
// PIN; only the bcrypt hash of the PIN is stored. The number of rows in
// this table is the unanimity denominator for event approval: a pending
// event goes public only once every moderator on the roster has
// approved it.
//
// Fields:
//  ID        – primary key identifier.
//  Email     – unique email address.
//  Name      – display name.
//  PINHash   – bcrypt hash of the login PIN.
//  CreatedAt – timestamp of creation.
type Moderator struct {
	ID        uint64    // moderators.id
	Email     string    // moderators.email
	Name      string    // moderators.name
	PINHash   string    // moderators.pin_hash
	CreatedAt time.Time // moderators.created_at
}
