package model

import "time"

// EventRegistration records one user's registration for one event, at
// most one row per (event, user) pair. TxnID holds the user-supplied
// payment transaction id for paid events; it is globally unique across
// registrations once set, which is what makes the duplicate-transaction
// guard a plain uniqueness check.
//
// Fields:
//  ID            – primary key identifier.
//  EventID       – event registered for.
//  UserID        – registering user.
//  RegisteredAt  – when the registration was created.
//  PaymentStatus – true once a deduplicated transaction id was accepted.
//  TxnID         – payment transaction id (nil for free events).
type EventRegistration struct {
	ID            uint64    `json:"id"`             // event_registrations.id
	EventID       uint64    `json:"event_id"`       // event_registrations.event_id
	UserID        uint64    `json:"user_id"`        // event_registrations.user_id
	RegisteredAt  time.Time `json:"registered_at"`  // event_registrations.registered_at
	PaymentStatus bool      `json:"payment_status"` // event_registrations.payment_status
	TxnID         *string   `json:"txn_id"`         // event_registrations.txn_id (nullable)
}

// EventLike is one row per (event, user) pair in `event_likes` and acts
// as a toggle: liking inserts the row, liking again removes it.
type EventLike struct {
	ID      uint64    // event_likes.id
	EventID uint64    // event_likes.event_id
	UserID  uint64    // event_likes.user_id
	LikedAt time.Time // event_likes.liked_at
}
