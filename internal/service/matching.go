package service

import (
	"strings"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
)

// MatchSubscriptions returns the subscriptions whose filters all match the
// event. Absent or "all" filters always match, so a subscription with no
// filters is a broadcast subscriber. Pure function; output order follows
// input order but callers must not rely on it.
func MatchSubscriptions(event *models.Event, subs []models.Subscription) []models.Subscription {
	matched := make([]models.Subscription, 0, len(subs))
	for _, sub := range subs {
		if SubscriptionMatches(event, sub) {
			matched = append(matched, sub)
		}
	}
	return matched
}

// SubscriptionMatches reports whether every present filter on the
// subscription accepts the event.
func SubscriptionMatches(event *models.Event, sub models.Subscription) bool {
	if !matchCategory(event.Category, sub.CategoryFilter) {
		return false
	}
	if !matchLocation(event.Location, sub.LocationFilter) {
		return false
	}
	return matchKeywords(event, sub.KeywordFilter)
}

func matchCategory(category string, filter *string) bool {
	if isAny(filter) {
		return true
	}
	return strings.EqualFold(category, strings.TrimSpace(*filter))
}

func matchLocation(location string, filter *string) bool {
	if isAny(filter) {
		return true
	}
	return strings.Contains(strings.ToLower(location), strings.ToLower(strings.TrimSpace(*filter)))
}

// matchKeywords splits the filter on commas and matches when ANY term occurs
// in the event text. OR semantics, not AND.
func matchKeywords(event *models.Event, filter *string) bool {
	if isAny(filter) {
		return true
	}

	haystack := strings.ToLower(event.Title + " " + event.Description + " " + event.Category + " " + event.Location)

	terms := strings.Split(*filter, ",")
	sawTerm := false
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		sawTerm = true
		if strings.Contains(haystack, term) {
			return true
		}
	}
	// A filter of only commas and whitespace carries no terms and matches.
	return !sawTerm
}

func isAny(filter *string) bool {
	if filter == nil {
		return true
	}
	trimmed := strings.TrimSpace(*filter)
	return trimmed == "" || strings.EqualFold(trimmed, models.FilterAny)
}
