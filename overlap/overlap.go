// Package overlap detects same-day time conflicts between events.
package overlap

import (
	"github.com/cyp0633/calview/calendar"
)

// Span is the half-open [Start, End) interval an event occupies on its date.
type Span struct {
	Start calendar.Instant
	End   calendar.Instant
}

// Valid reports whether both ends parsed.
func (s Span) Valid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}

// SpanOf converts ev into a span. Events whose start is not strictly before
// their end, or whose date or times are malformed, get an invalid span.
func SpanOf(ev calendar.Event) Span {
	start, errStart := calendar.ParseClock(ev.StartTime)
	end, errEnd := calendar.ParseClock(ev.EndTime)
	if errStart != nil || errEnd != nil || start >= end {
		return Span{Start: calendar.Invalid, End: calendar.Invalid}
	}
	return Span{
		Start: calendar.ParseInstant(ev.Date, ev.StartTime),
		End:   calendar.ParseInstant(ev.Date, ev.EndTime),
	}
}

// Overlaps reports whether a and b share any instant. Touching spans do not
// overlap, and an invalid span overlaps nothing.
func Overlaps(a, b calendar.Event) bool {
	sa, sb := SpanOf(a), SpanOf(b)
	return sa.Start.Before(sb.End) && sb.Start.Before(sa.End)
}

// FindOverlapping returns the events that overlap candidate, in input order.
// An event sharing the candidate's ID is the candidate itself being edited
// and is skipped; a candidate without an ID skips nothing.
//
// Only the literal date of each event is compared. Recurring series are not
// expanded.
func FindOverlapping(candidate calendar.Event, events []calendar.Event) []calendar.Event {
	span := SpanOf(candidate)
	if !span.Valid() {
		return []calendar.Event{}
	}

	out := []calendar.Event{}
	for _, ev := range events {
		if candidate.ID != "" && ev.ID == candidate.ID {
			continue
		}
		other := SpanOf(ev)
		if span.Start.Before(other.End) && other.Start.Before(span.End) {
			out = append(out, ev)
		}
	}
	return out
}
