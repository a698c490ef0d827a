package recurrence

import (
	"slices"

	"github.com/cyp0633/calview/calendar"
)

// Engine provides unified recurrence evaluation for calendar events.
// The zero configuration (NewEngine) holds no state and is safe for concurrent use.
type Engine struct {
	cache  *RecurrenceCache
	config EngineConfig
}

// NewEngine creates a recurrence engine without caching.
func NewEngine() *Engine {
	return &Engine{config: DisabledCacheConfig}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// OccursOn reports whether ev has an occurrence on target.
func (e *Engine) OccursOn(ev calendar.Event, target calendar.Date) bool {
	if target.IsZero() || ev.IsException(target.String()) {
		return false
	}
	anchor, err := ev.Anchor()
	if err != nil {
		return false
	}

	rule := ev.Repeat
	if rule.Type == calendar.RepeatNone {
		return target.Equal(anchor)
	}
	if !withinBounds(rule, anchor, target) {
		return false
	}

	step := rule.Step()
	switch rule.Type {
	case calendar.RepeatDaily:
		return target.DaysSince(anchor)%step == 0
	case calendar.RepeatWeekly:
		days := target.DaysSince(anchor)
		return target.Weekday() == anchor.Weekday() && (days/7)%step == 0
	case calendar.RepeatMonthly:
		return sameMonthDay(anchor, target) && target.MonthsSince(anchor)%step == 0
	case calendar.RepeatYearly:
		return target.Month() == anchor.Month() &&
			sameYearDay(anchor, target) &&
			(target.Year()-anchor.Year())%step == 0
	default:
		return false
	}
}

// OccursOnString is OccursOn for a YYYY-MM-DD target. Malformed targets never match.
func (e *Engine) OccursOnString(ev calendar.Event, target string) bool {
	d, err := calendar.ParseDate(target)
	if err != nil {
		return false
	}
	return e.OccursOn(ev, d)
}

// HasOccurrenceInRange reports whether ev occurs on any day of [start, end].
// The result equals checking every day of the range with OccursOn, but only
// candidate days produced by the rule are visited.
func (e *Engine) HasOccurrenceInRange(ev calendar.Event, start, end calendar.Date) bool {
	if end.Before(start) {
		return false
	}
	if e.cache != nil {
		if v, ok := e.cache.Get(opHasOccurrence, ev, start, end); ok {
			return v
		}
	}
	result := e.firstOccurrence(ev, start, end).IsPresent()
	if e.cache != nil {
		e.cache.Set(opHasOccurrence, ev, start, end, result)
	}
	return result
}

// Occurrences returns every occurrence date of ev within [start, end], ascending.
func (e *Engine) Occurrences(ev calendar.Event, start, end calendar.Date) []calendar.Date {
	var out []calendar.Date
	e.walk(ev, start, end, func(d calendar.Date) bool {
		out = append(out, d)
		return true
	})
	return out
}

// Close releases the cache cleanup goroutine, if any.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// CacheStats returns statistics of the engine cache; zero when caching is disabled.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

func withinBounds(rule calendar.RecurrenceRule, anchor, target calendar.Date) bool {
	if target.Before(anchor) {
		return false
	}
	end, err := rule.End()
	if err != nil {
		return false
	}
	if until, ok := end.Get(); ok && target.After(until) {
		return false
	}
	return true
}

// sameMonthDay applies the monthly month-end clamp: an anchor on the last day of its
// month only matches last days; any other anchor needs the same day number.
func sameMonthDay(anchor, target calendar.Date) bool {
	if anchor.IsLastDayOfMonth() {
		return target.IsLastDayOfMonth()
	}
	return target.Day() == anchor.Day()
}

// sameYearDay matches the anchor's day number, and also the last day of the
// month when the anchor was one. A Feb 28 anchor of a common year therefore
// recurs on both Feb 28 and Feb 29 of leap years.
func sameYearDay(anchor, target calendar.Date) bool {
	if target.Day() == anchor.Day() {
		return true
	}
	return anchor.IsLastDayOfMonth() && target.IsLastDayOfMonth()
}

// yearlyDays lists, ascending, the days of the anchor's month in year that
// sameYearDay accepts.
func yearlyDays(anchor calendar.Date, year int) []int {
	last := calendar.DaysInMonth(year, int(anchor.Month()))
	var days []int
	if anchor.Day() <= last {
		days = append(days, anchor.Day())
	}
	if anchor.IsLastDayOfMonth() && anchor.Day() != last {
		days = append(days, last)
	}
	slices.Sort(days)
	return days
}

// clampedDay returns the day in (year, month) that an anchor maps onto, or 0
// when the month has no such day.
func clampedDay(anchor calendar.Date, year int, month int) int {
	last := calendar.DaysInMonth(year, month)
	if anchor.IsLastDayOfMonth() {
		return last
	}
	if anchor.Day() > last {
		return 0
	}
	return anchor.Day()
}
