// Package repository implements the data access layer over MySQL.
// Sentinel values defined here are reused across repositories so that
// handlers can distinguish failure scenarios: not-found, ownership
// violations, and conflicts such as a duplicate registration or a
// reused payment transaction id. Every read-modify-write sequence
// (the approval decision, registration, the like toggle) runs inside a
// single transaction so concurrent submissions cannot interleave into a
// missed transition or an accepted duplicate.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEventNotFound is returned when an event id does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrNoModerators is returned by the approval path when the moderator
// roster is empty. An empty roster would make unanimity trivially true,
// so approvals are rejected until at least one moderator is configured.
var ErrNoModerators = errors.New("no moderators configured")

// ErrAlreadyRegistered is returned when a user registers twice for the
// same event.
var ErrAlreadyRegistered = errors.New("already registered for this event")

// ErrDuplicateTxn is returned when a registration's transaction id is
// already recorded on another registration. The check is string-level
// deduplication only; it does not verify that a payment occurred.
var ErrDuplicateTxn = errors.New("transaction id already used")

// ErrTxnRequired is returned when registering for a paid event without
// a transaction id.
var ErrTxnRequired = errors.New("transaction id required for paid event")

// ErrRegistrationClosed is returned when an event does not accept
// participant registration or is not approved yet.
var ErrRegistrationClosed = errors.New("registration is not open for this event")

// isDuplicateKey reports whether a MySQL error is a unique-constraint
// violation (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
