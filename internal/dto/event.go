package dto

import "time"

// SubmitEventRequest is the payload for a new event submission.
type SubmitEventRequest struct {
	Title          string    `json:"title" validate:"required,max=200"`
	Description    string    `json:"description" validate:"required"`
	Category       string    `json:"category" validate:"required,max=100"`
	Location       string    `json:"location" validate:"required,max=200"`
	VenueAddress   *string   `json:"venue_address"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required"`
	OrganizerID    string    `json:"organizer_id" validate:"required,uuid4"`
	OrganizerEmail string    `json:"organizer_email" validate:"required,email"`
	PriceCents     int64     `json:"price_cents" validate:"min=0"`
	Currency       string    `json:"currency" validate:"omitempty,len=3"`
	IsFree         bool      `json:"is_free"`
	ImageURL       *string   `json:"image_url" validate:"omitempty,url"`
}
