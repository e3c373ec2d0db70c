package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
)

func matchTestEvent() *models.Event {
	return &models.Event{
		ID:          "evt-1",
		Title:       "Late Night Jazz Session",
		Description: "An intimate evening of improvised music",
		Category:    "Music",
		Location:    "Stockholm, Södermalm",
	}
}

func strFilter(s string) *string {
	return &s
}

func TestMatchBroadcastSubscription(t *testing.T) {
	subs := []models.Subscription{{ID: "s1", Email: "a@example.com"}}
	matched := MatchSubscriptions(matchTestEvent(), subs)
	require.Len(t, matched, 1)
	assert.Equal(t, "s1", matched[0].ID)
}

func TestMatchCategoryFilter(t *testing.T) {
	event := matchTestEvent()

	assert.True(t, SubscriptionMatches(event, models.Subscription{CategoryFilter: strFilter("Music")}))
	assert.True(t, SubscriptionMatches(event, models.Subscription{CategoryFilter: strFilter("music")}), "category match is case-insensitive")
	assert.True(t, SubscriptionMatches(event, models.Subscription{CategoryFilter: strFilter("all")}), "sentinel matches everything")
	assert.False(t, SubscriptionMatches(event, models.Subscription{CategoryFilter: strFilter("Sports")}))
}

func TestMatchLocationFilterSubstring(t *testing.T) {
	event := matchTestEvent()

	assert.True(t, SubscriptionMatches(event, models.Subscription{LocationFilter: strFilter("stockholm")}))
	assert.True(t, SubscriptionMatches(event, models.Subscription{LocationFilter: strFilter("söder")}))
	assert.False(t, SubscriptionMatches(event, models.Subscription{LocationFilter: strFilter("Göteborg")}))
}

func TestMatchKeywordFilterIsOrAcrossTerms(t *testing.T) {
	event := matchTestEvent()
	event.Title = "Rock by the River"

	assert.True(t, SubscriptionMatches(event, models.Subscription{KeywordFilter: strFilter("jazz,rock")}), "one matching term is enough")
	assert.True(t, SubscriptionMatches(event, models.Subscription{KeywordFilter: strFilter(" ROCK ")}), "terms are trimmed and lowercased")
	assert.False(t, SubscriptionMatches(event, models.Subscription{KeywordFilter: strFilter("opera,techno")}))
}

func TestMatchKeywordSearchesAllFields(t *testing.T) {
	event := matchTestEvent()

	assert.True(t, SubscriptionMatches(event, models.Subscription{KeywordFilter: strFilter("improvised")}), "description is searched")
	assert.True(t, SubscriptionMatches(event, models.Subscription{KeywordFilter: strFilter("music")}), "category is searched")
	assert.True(t, SubscriptionMatches(event, models.Subscription{KeywordFilter: strFilter("södermalm")}), "location is searched")
}

func TestMatchAllFiltersMustPass(t *testing.T) {
	event := matchTestEvent()

	sub := models.Subscription{
		CategoryFilter: strFilter("Music"),
		LocationFilter: strFilter("Stockholm"),
		KeywordFilter:  strFilter("jazz"),
	}
	assert.True(t, SubscriptionMatches(event, sub))

	sub.LocationFilter = strFilter("Malmö")
	assert.False(t, SubscriptionMatches(event, sub), "a single failing filter excludes the subscriber")
}

func TestMatchEmptyKeywordTermsMatch(t *testing.T) {
	event := matchTestEvent()
	assert.True(t, SubscriptionMatches(event, models.Subscription{KeywordFilter: strFilter(" , ,")}))
}

func TestMatchSubscriptionsReturnsSubset(t *testing.T) {
	event := matchTestEvent()
	subs := []models.Subscription{
		{ID: "broadcast"},
		{ID: "music", CategoryFilter: strFilter("Music")},
		{ID: "sports", CategoryFilter: strFilter("Sports")},
		{ID: "rock", KeywordFilter: strFilter("rock")},
	}

	matched := MatchSubscriptions(event, subs)
	ids := make([]string, 0, len(matched))
	for _, sub := range matched {
		ids = append(ids, sub.ID)
	}
	assert.ElementsMatch(t, []string{"broadcast", "music"}, ids)
}
