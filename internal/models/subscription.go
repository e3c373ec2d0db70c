package models

import "time"

// FilterAny is the sentinel subscribers use to opt out of a single filter.
const FilterAny = "all"

// Subscription is a newsletter subscriber with optional event filters.
// A subscription with no filters at all is a broadcast subscriber and
// matches every approved event. Rows are never mutated after creation.
type Subscription struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	CategoryFilter *string   `db:"category_filter" json:"category_filter,omitempty"`
	LocationFilter *string   `db:"location_filter" json:"location_filter,omitempty"`
	KeywordFilter  *string   `db:"keyword_filter" json:"keyword_filter,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
