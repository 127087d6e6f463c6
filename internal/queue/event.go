// Package queue defines message payloads exchanged over the message broker.
package queue

// EventModeratedEvent is published when a pending event reaches a terminal
// moderation outcome, either approved by the full moderator roster or
// cancelled by a single rejection. It carries enough context for downstream
// consumers to log or notify without querying the primary database.
type EventModeratedEvent struct {
	EventID        uint64 `json:"event_id"`
	EventName      string `json:"event_name"`
	OrganizerID    uint64 `json:"organizer_id"`
	Category       string `json:"category"`
	EventDate      string `json:"event_date"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	ModeratorID    uint64 `json:"moderator_id"`
	Approvals      int    `json:"approvals"`
	RosterSize     int    `json:"roster_size"`
	DecidedAt      string `json:"decided_at"`
}
