package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTableRender тестирует выравнивание колонок с широкими символами
func TestTableRender(t *testing.T) {
	table := NewTable("TITLE", "SEATS")
	table.Append("会议", "1/2")
	table.Append("Meetup", "3/4")

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))

	want := strings.Join([]string{
		"TITLE   SEATS",
		"------  -----",
		"会议    1/2",
		"Meetup  3/4",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 2, table.Len())
}

func TestTableCells(t *testing.T) {
	table := NewTable("A", "B")
	table.Append("line one\nline two")
	table.Append(strings.Repeat("x", 60), "extra", "ignored")

	assert.Equal(t, []string{"line one line two", ""}, table.rows[0])

	long := table.rows[1][0]
	assert.LessOrEqual(t, runewidth.StringWidth(long), maxCellWidth)
	assert.True(t, strings.HasSuffix(long, "…"))
	assert.Len(t, table.rows[1], 2)
}

func TestFormatting(t *testing.T) {
	now := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Free", fee(0))
	assert.Equal(t, "1,234.5", fee(1234.5))
	assert.Equal(t, "89.99", fee(89.99))
	assert.Equal(t, "12,000", count(12000))
	assert.Equal(t, "3/5,000", seats(entity.Event{Attendees: 3, Capacity: 5000}))
	assert.Equal(t, "3/-", seats(entity.Event{Attendees: 3, Capacity: entity.UnknownCapacity}))
	assert.Equal(t, "4,997", seatsLeft(entity.Event{Attendees: 3, Capacity: 5000}))
	assert.Equal(t, "-", seatsLeft(entity.Event{Capacity: entity.UnknownCapacity}))
	assert.Equal(t, "75%", percent(0.75))
	assert.Equal(t, "-", when(time.Time{}, now))
	assert.Equal(t, "2024-08-01 10:00 (2 hours ago)", when(now.Add(-2*time.Hour), now))
}
