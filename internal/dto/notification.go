package dto

// NotifyRequest triggers a subscriber notification round for one event.
type NotifyRequest struct {
	EventID string `json:"event_id" validate:"required,uuid4"`
}

// NotifyResponse reports the fan-out outcome. NotifiedCount counts sends the
// transport accepted, not end-to-end deliveries.
type NotifyResponse struct {
	Success       bool `json:"success"`
	NotifiedCount int  `json:"notified_count"`
	FailedCount   int  `json:"failed_count"`
}
