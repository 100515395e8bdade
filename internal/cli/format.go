package cli

import (
	"strconv"
	"time"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/dustin/go-humanize"
)

const displayLayout = "2006-01-02 15:04"

// when shows the absolute start with a relative hint, "2024-07-15 18:00 (2 years ago)".
func when(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(displayLayout) + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
}

func fee(amount float64) string {
	if amount <= 0 {
		return entity.Money(amount)
	}
	return humanize.CommafWithDigits(amount, 2)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func seats(e entity.Event) string {
	if !e.HasCapacity() {
		return count(e.Attendees) + "/-"
	}
	return count(e.Attendees) + "/" + count(e.Capacity)
}

func seatsLeft(e entity.Event) string {
	if !e.HasCapacity() {
		return "-"
	}
	return count(e.SeatsLeft())
}

func percent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 0, 64) + "%"
}
