package model

import "time"

// Event lifecycle statuses. An event is created PENDING and moves to
// APPROVED or CANCELLED exactly once; neither transition ever reverses.
const (
	EventStatusPending   = "PENDING"
	EventStatusApproved  = "APPROVED"
	EventStatusCancelled = "CANCELLED"
)

// Event modes and categories as stored in their enum columns.
const (
	EventModeOffline = "OFFLINE"
	EventModeOnline  = "ONLINE"
)

// EventCategories lists the accepted values for events.category.
var EventCategories = []string{"technical", "cultural", "sports", "workshop", "seminar"}

// Event represents a row in the `events` table. An event is owned by
// its organizer and carries descriptive metadata plus the payment
// settings used during registration. Status is mutated only by the
// moderation workflow or an explicit admin edit.
//
// Fields:
//  ID                      – primary key identifier.
//  Name                    – event name.
//  Description             – free-text description (nil if unset).
//  Status                  – PENDING, APPROVED or CANCELLED.
//  Logo                    – logo image reference (nil if unset).
//  BannerImage             – banner image reference (nil if unset).
//  OrganizerID             – user ID of the organizer who created it.
//  ParticipantRegistration – whether students may register.
//  Category                – event category enum value.
//  Featured                – whether the admin pinned it to the front page.
//  Mode                    – OFFLINE or ONLINE (nil if unset).
//  Website                 – external site URL (nil if unset).
//  IsPaid                  – whether registration requires payment proof.
//  PriceCents              – ticket price in cents; zero for free events.
//  QRImage                 – payment QR image reference (nil if unset).
//  EventDate               – date of the event as YYYY-MM-DD.
//  CreatedAt               – creation timestamp.
//  UpdatedAt               – last update timestamp.
type Event struct {
	ID                      uint64    `json:"id"`                       // events.id
	Name                    string    `json:"name"`                     // events.name
	Description             *string   `json:"description"`              // events.description (nullable)
	Status                  string    `json:"status"`                   // events.status
	Logo                    *string   `json:"logo"`                     // events.logo (nullable)
	BannerImage             *string   `json:"banner_image"`             // events.banner_image (nullable)
	OrganizerID             uint64    `json:"organizer_id"`             // events.organizer_id
	ParticipantRegistration bool      `json:"participant_registration"` // events.participant_registration
	Category                string    `json:"category"`                 // events.category
	Featured                bool      `json:"featured"`                 // events.featured
	Mode                    *string   `json:"mode"`                     // events.mode (nullable)
	Website                 *string   `json:"website"`                  // events.website (nullable)
	IsPaid                  bool      `json:"is_paid"`                  // events.is_paid
	PriceCents              uint32    `json:"price_cents"`              // events.price_cents
	QRImage                 *string   `json:"qr_image"`                 // events.qr_image (nullable)
	EventDate               string    `json:"event_date"`               // events.event_date
	CreatedAt               time.Time `json:"created_at"`               // events.created_at
	UpdatedAt               time.Time `json:"updated_at"`               // events.updated_at
}
