package overlap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cyp0633/calview/calendar"
)

func event(id, date, start, end string) calendar.Event {
	return calendar.Event{
		ID:        id,
		Title:     "일정 " + id,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Category:  calendar.CategoryWork,
	}
}

func TestSpanOf(t *testing.T) {
	tests := []struct {
		name       string
		ev         calendar.Event
		start, end string
	}{
		{"midnight start", event("1", "2024-11-06", "00:00", "01:00"), "2024-11-06T00:00", "2024-11-06T01:00"},
		{"odd minute", event("1", "2023-04-06", "14:00", "16:01"), "2023-04-06T14:00", "2023-04-06T16:01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := SpanOf(tt.ev)
			assert.True(t, span.Valid())
			assert.Equal(t, tt.start, span.Start.String())
			assert.Equal(t, tt.end, span.End.String())
		})
	}
}

func TestSpanOf_Invalid(t *testing.T) {
	tests := []calendar.Event{
		event("1", "2024-16-06", "00:00", "01:00"),
		event("1", "2024--1-06", "00:00", "01:00"),
		event("1", "2024-12-67", "16:00", "23:00"),
		event("1", "2024-46-06", "18:00", "20:00"),
		event("1", "2024-12-06", "16:00", "01:00"),
		event("1", "2024-01-06", "24:00", "01:00"),
		event("1", "2024-01-06", "10:00", "10:00"),
		event("1", "2024-01-06", "ab:cd", "10:00"),
	}
	for _, ev := range tests {
		span := SpanOf(ev)
		assert.False(t, span.Valid(), "%+v", ev)
		assert.Equal(t, "Invalid Date", span.Start.String())
		assert.Equal(t, "Invalid Date", span.End.String())
	}
}

func TestSpanOf_UsesWallClock(t *testing.T) {
	span := SpanOf(event("1", "2024-07-01", "14:30", "15:00"))
	got, ok := span.Start.Time()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 7, 1, 14, 30, 0, 0, time.UTC), got)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b calendar.Event
		want bool
	}{
		{"identical", event("1", "2024-12-06", "01:00", "02:00"), event("2", "2024-12-06", "01:00", "02:00"), true},
		{"partial", event("1", "2024-10-15", "09:00", "10:00"), event("2", "2024-10-15", "09:30", "10:30"), true},
		{"contained", event("1", "2024-10-15", "09:00", "12:00"), event("2", "2024-10-15", "10:00", "11:00"), true},
		{"touching", event("1", "2024-10-15", "09:00", "10:00"), event("2", "2024-10-15", "10:00", "11:00"), false},
		{"different days", event("1", "2024-01-06", "01:00", "02:00"), event("2", "2024-02-06", "02:00", "03:00"), false},
		{"invalid side", event("1", "2024-10-15", "10:00", "09:00"), event("2", "2024-10-15", "08:00", "11:00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "symmetric")
		})
	}
}

func TestFindOverlapping(t *testing.T) {
	events := []calendar.Event{
		event("1", "2024-10-15", "00:00", "01:00"),
		event("2", "2024-10-15", "22:00", "23:00"),
		event("3", "2024-10-15", "21:00", "22:00"),
	}

	for _, existing := range events {
		t.Run(existing.ID, func(t *testing.T) {
			candidate := event("4", existing.Date, existing.StartTime, existing.EndTime)
			assert.Equal(t, []calendar.Event{existing}, FindOverlapping(candidate, events))
		})
	}

	t.Run("no overlap", func(t *testing.T) {
		got := FindOverlapping(event("4", "2024-10-15", "10:00", "11:00"), events)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("edited event skips itself", func(t *testing.T) {
		candidate := event("2", "2024-10-15", "21:30", "22:30")
		assert.Equal(t, []calendar.Event{events[2]}, FindOverlapping(candidate, events))
	})

	t.Run("draft without id", func(t *testing.T) {
		candidate := event("", "2024-10-15", "00:00", "23:30")
		assert.Equal(t, events, FindOverlapping(candidate, events))
	})

	t.Run("recurrence not expanded", func(t *testing.T) {
		daily := event("5", "2024-10-01", "09:00", "10:00")
		daily.Repeat = calendar.RecurrenceRule{Type: calendar.RepeatDaily, Interval: 1}
		candidate := event("", "2024-10-15", "09:00", "10:00")
		assert.Empty(t, FindOverlapping(candidate, []calendar.Event{daily}))
	})
}
