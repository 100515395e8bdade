package service

import (
	"testing"
	"time"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/stretchr/testify/assert"
)

func fee(v float64) *float64 { return &v }

// TestFilterEvents тестирует фильтрацию списка событий
func TestFilterEvents(t *testing.T) {
	events := []entity.Event{
		{ID: "1", Title: "Summer Music Festival", Location: "Central Park, New York", Category: "Music", Fee: 89.99,
			StartsAt: time.Date(2024, 7, 15, 18, 0, 0, 0, time.UTC)},
		{ID: "2", Title: "Tech Conference 2024", Description: "Latest in AI", Location: "Convention Center, San Francisco",
			Category: "Technology", Fee: 149.99, StartsAt: time.Date(2024, 8, 20, 9, 0, 0, 0, time.UTC)},
		{ID: "3", Title: "Food & Wine Expo", Location: "Exhibition Hall, Chicago", Category: "Food", Fee: 0,
			StartsAt: time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)},
	}

	tests := []struct {
		name   string
		filter EventFilter
		want   []entity.ID
	}{
		{name: "no filter", filter: EventFilter{}, want: []entity.ID{"1", "2", "3"}},
		{name: "search title", filter: EventFilter{Search: "music"}, want: []entity.ID{"1"}},
		{name: "search description", filter: EventFilter{Search: "ai"}, want: []entity.ID{"2"}},
		{name: "search location", filter: EventFilter{Search: "chicago"}, want: []entity.ID{"3"}},
		{name: "category ignores case", filter: EventFilter{Category: "TECHNOLOGY"}, want: []entity.ID{"2"}},
		{name: "date", filter: EventFilter{Date: "2024-09-10"}, want: []entity.ID{"3"}},
		{name: "location substring", filter: EventFilter{Location: "new york"}, want: []entity.ID{"1"}},
		{name: "fee range inclusive", filter: EventFilter{MinFee: fee(89.99), MaxFee: fee(149.99)}, want: []entity.ID{"1", "2"}},
		{name: "free only", filter: EventFilter{MaxFee: fee(0)}, want: []entity.ID{"3"}},
		{name: "conjunction", filter: EventFilter{Search: "festival", Category: "Technology"}, want: []entity.ID{}},
		{name: "blank fields ignored", filter: EventFilter{Search: "  ", Category: " "}, want: []entity.ID{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEvents(events, tt.filter)

			ids := make([]entity.ID, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterEventsEmptyInput(t *testing.T) {
	assert.Empty(t, FilterEvents(nil, EventFilter{Search: "x"}))
}
