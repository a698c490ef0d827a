package view

import (
	"fmt"
	"strings"

	"github.com/cyp0633/calview/calendar"
)

// Mode selects the date window of a view.
type Mode string

const (
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

// ParseMode maps the wire name of a view mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeWeek, ModeMonth:
		return m, nil
	default:
		return "", fmt.Errorf("view mode %q: %w", s, calendar.ErrMalformed)
	}
}

// Window returns the inclusive date range covered by mode around anchor.
// ok is false for unknown modes.
func Window(mode Mode, anchor calendar.Date) (start, end calendar.Date, ok bool) {
	switch mode {
	case ModeWeek:
		dates := WeekDates(anchor)
		return dates[0], dates[6], true
	case ModeMonth:
		start, end = MonthRange(anchor)
		return start, end, true
	default:
		return calendar.Date{}, calendar.Date{}, false
	}
}

func containsTerm(target, term string) bool {
	return strings.Contains(strings.ToLower(target), strings.ToLower(term))
}

// Search keeps events whose title, description or location contains term,
// ignoring case. An empty term keeps everything.
func Search(events []calendar.Event, term string) []calendar.Event {
	out := make([]calendar.Event, 0, len(events))
	for _, ev := range events {
		if term == "" || containsTerm(ev.Title, term) || containsTerm(ev.Description, term) || containsTerm(ev.Location, term) {
			out = append(out, ev)
		}
	}
	return out
}

// FilteredEvents applies the text search and then keeps events with at least
// one occurrence in the window of mode around anchor. Input order is kept.
// Unknown modes apply the text search only.
func FilteredEvents(engine Recurrence, events []calendar.Event, term string, anchor calendar.Date, mode Mode) []calendar.Event {
	searched := Search(events, term)

	start, end, ok := Window(mode, anchor)
	if !ok {
		return searched
	}

	out := make([]calendar.Event, 0, len(searched))
	for _, ev := range searched {
		if engine.HasOccurrenceInRange(ev, start, end) {
			out = append(out, ev)
		}
	}
	return out
}
