package models

import "time"

// ApprovalState tracks where an event sits in the moderation pipeline.
// Explicit tri-state: a rejected event is not the same as a pending one.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "PENDING"
	ApprovalApproved ApprovalState = "APPROVED"
	ApprovalRejected ApprovalState = "REJECTED"
)

// Valid reports whether the state is one of the known variants.
func (s ApprovalState) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// Event represents a persisted event listing.
type Event struct {
	ID             string        `db:"id" json:"id"`
	Title          string        `db:"title" json:"title"`
	Description    string        `db:"description" json:"description"`
	Category       string        `db:"category" json:"category"`
	Location       string        `db:"location" json:"location"`
	VenueAddress   *string       `db:"venue_address" json:"venue_address,omitempty"`
	StartsAt       time.Time     `db:"starts_at" json:"starts_at"`
	EndsAt         time.Time     `db:"ends_at" json:"ends_at"`
	OrganizerID    string        `db:"organizer_id" json:"organizer_id"`
	OrganizerEmail string        `db:"organizer_email" json:"organizer_email"`
	PriceCents     int64         `db:"price_cents" json:"price_cents"`
	Currency       string        `db:"currency" json:"currency"`
	IsFree         bool          `db:"is_free" json:"is_free"`
	ImageURL       *string       `db:"image_url" json:"image_url,omitempty"`
	ApprovalState  ApprovalState `db:"approval_state" json:"approval_state"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	State    *ApprovalState
	Category string
	Page     int
	PageSize int
}
