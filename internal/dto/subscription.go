package dto

// CreateSubscriptionRequest registers a newsletter subscriber. All filters
// are optional; empty or "all" means no restriction.
type CreateSubscriptionRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	CategoryFilter *string `json:"category_filter" validate:"omitempty,max=100"`
	LocationFilter *string `json:"location_filter" validate:"omitempty,max=200"`
	KeywordFilter  *string `json:"keyword_filter" validate:"omitempty,max=500"`
}
