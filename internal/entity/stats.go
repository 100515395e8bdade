package entity

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// EventStats is the dashboard summary over a list of events.
type EventStats struct {
	TotalEvents        int            `json:"total_events"`
	TotalRegistrations int            `json:"total_registrations"`
	AverageFee         float64        `json:"average_fee"`
	CategoryCounts     map[string]int `json:"category_counts"`
	Upcoming           []Event        `json:"upcoming"`
}

// ComputeStats summarises events; upcoming holds events starting after now,
// soonest first.
func ComputeStats(events []Event, now time.Time) EventStats {
	stats := EventStats{
		TotalEvents:    len(events),
		CategoryCounts: make(map[string]int),
	}

	var fees float64
	for _, e := range events {
		stats.TotalRegistrations += e.Attendees
		fees += e.Fee
		stats.CategoryCounts[e.Category]++
		if e.StartsAt.After(now) {
			stats.Upcoming = append(stats.Upcoming, e)
		}
	}
	if len(events) > 0 {
		stats.AverageFee = math.Round(fees/float64(len(events))*100) / 100
	}

	sort.SliceStable(stats.Upcoming, func(i, j int) bool {
		return stats.Upcoming[i].StartsAt.Before(stats.Upcoming[j].StartsAt)
	})
	return stats
}

// UtilizationRate is attendees over capacity, 0 when capacity is 0 or unknown.
func UtilizationRate(e Event) float64 {
	if e.Capacity <= 0 {
		return 0.0
	}
	return float64(e.Attendees) / float64(e.Capacity)
}

func (s EventStats) String() string {
	return fmt.Sprintf(
		"Events: %d, Registrations: %d, Average fee: %.2f, Upcoming: %d",
		s.TotalEvents,
		s.TotalRegistrations,
		s.AverageFee,
		len(s.Upcoming),
	)
}
