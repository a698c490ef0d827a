package recurrence

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/cyp0633/calview/calendar"
)

// ErrNotRecurring is returned when an RRULE is requested for a one-off event.
var ErrNotRecurring = errors.New("event does not repeat")

var frequencies = map[calendar.RepeatType]rrule.Frequency{
	calendar.RepeatDaily:   rrule.DAILY,
	calendar.RepeatWeekly:  rrule.WEEKLY,
	calendar.RepeatMonthly: rrule.MONTHLY,
	calendar.RepeatYearly:  rrule.YEARLY,
}

// dtstart returns the floating start of the anchor occurrence, expressed in UTC.
func dtstart(ev calendar.Event, anchor calendar.Date) time.Time {
	start := anchor.Time(time.UTC)
	if c, err := calendar.ParseClock(ev.StartTime); err == nil {
		start = start.Add(time.Duration(c) * time.Minute)
	}
	return start
}

// RRuleOption converts the recurrence of ev into an RFC 5545 rule.
// Monthly month-end anchors become BYMONTHDAY=-1 so the series keeps landing
// on the last day of shorter months. Yearly rules only need BY parts for the
// last day of February: Feb 29 maps to BYMONTHDAY=-1 and the Feb 28 of a
// common year to BYMONTHDAY=28,-1.
func RRuleOption(ev calendar.Event) (rrule.ROption, error) {
	freq, ok := frequencies[ev.Repeat.Type]
	if !ok {
		return rrule.ROption{}, fmt.Errorf("event %q: %w", ev.ID, ErrNotRecurring)
	}
	anchor, err := ev.Anchor()
	if err != nil {
		return rrule.ROption{}, fmt.Errorf("event %q: %w", ev.ID, err)
	}

	opt := rrule.ROption{
		Freq:     freq,
		Dtstart:  dtstart(ev, anchor),
		Interval: ev.Repeat.Step(),
	}
	opt.Bymonth, opt.Bymonthday = monthDayParts(ev.Repeat.Type, anchor)

	bound, err := ev.Repeat.End()
	if err != nil {
		return rrule.ROption{}, fmt.Errorf("event %q: %w", ev.ID, err)
	}
	if until, ok := bound.Get(); ok {
		opt.Until = until.Time(time.UTC).Add(24*time.Hour - time.Second)
	}
	return opt, nil
}

// monthDayParts returns the BYMONTH and BYMONTHDAY values that keep an
// RFC 5545 expansion in line with the month-end clamp.
func monthDayParts(typ calendar.RepeatType, anchor calendar.Date) (bymonth, bymonthday []int) {
	if !anchor.IsLastDayOfMonth() {
		return nil, nil
	}
	switch typ {
	case calendar.RepeatMonthly:
		return nil, []int{-1}
	case calendar.RepeatYearly:
		if anchor.Month() != time.February {
			return nil, nil
		}
		if anchor.Day() == 29 {
			return []int{2}, []int{-1}
		}
		return []int{2}, []int{28, -1}
	}
	return nil, nil
}

// RRuleString renders the RRULE value (without DTSTART) for ev.
func RRuleString(ev calendar.Event) (string, error) {
	opt, err := RRuleOption(ev)
	if err != nil {
		return "", err
	}
	return opt.RRuleString(), nil
}

// RuleSet builds an rrule set for ev with every exception excluded.
func RuleSet(ev calendar.Event) (*rrule.Set, error) {
	opt, err := RRuleOption(ev)
	if err != nil {
		return nil, err
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build rule for event %q: %w", ev.ID, err)
	}

	set := &rrule.Set{}
	set.RRule(r)
	for _, ex := range ev.ExceptionList {
		d, err := calendar.ParseDate(ex)
		if err != nil {
			continue
		}
		set.ExDate(dtstart(ev, d))
	}
	return set, nil
}

// ParseRRule reads an RRULE value back into a RecurrenceRule. Only the
// shapes produced by RRuleString are accepted: a plain frequency with an
// optional interval and UNTIL, plus the month-end BYMONTH/BYMONTHDAY forms.
// Everything else is ErrMalformed rather than silently dropped.
func ParseRRule(value string) (calendar.RecurrenceRule, error) {
	rule, _, err := parseRRule(value)
	return rule, err
}

// ParseRRuleFor is ParseRRule for a rule starting on anchor. BYMONTH must name
// the anchor's month and BYMONTHDAY must be what RRuleString writes for it.
func ParseRRuleFor(value string, anchor calendar.Date) (calendar.RecurrenceRule, error) {
	rule, opt, err := parseRRule(value)
	if err != nil {
		return calendar.RecurrenceRule{}, err
	}
	if len(opt.Bymonth) == 0 && len(opt.Bymonthday) == 0 {
		return rule, nil
	}
	_, bymonthday := monthDayParts(rule.Type, anchor)
	if len(opt.Bymonth) > 0 && !sameInts(opt.Bymonth, []int{int(anchor.Month())}) {
		return calendar.RecurrenceRule{}, fmt.Errorf("rrule %q: BYMONTH does not match anchor %s: %w", value, anchor, calendar.ErrMalformed)
	}
	if len(opt.Bymonthday) > 0 && !sameInts(opt.Bymonthday, bymonthday) {
		return calendar.RecurrenceRule{}, fmt.Errorf("rrule %q: BYMONTHDAY does not match anchor %s: %w", value, anchor, calendar.ErrMalformed)
	}
	return rule, nil
}

func parseRRule(value string) (calendar.RecurrenceRule, rrule.ROption, error) {
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return calendar.RecurrenceRule{}, rrule.ROption{}, fmt.Errorf("parse rrule %q: %w", value, err)
	}

	rule := calendar.RecurrenceRule{Interval: opt.Interval}
	if rule.Interval == 0 {
		rule.Interval = 1
	}
	found := false
	for t, f := range frequencies {
		if f == opt.Freq {
			rule.Type, found = t, true
			break
		}
	}
	if !found {
		return calendar.RecurrenceRule{}, rrule.ROption{}, fmt.Errorf("rrule frequency %v: %w", opt.Freq, calendar.ErrMalformed)
	}
	if opt.Count != 0 || len(opt.Byweekday) > 0 || len(opt.Bysetpos) > 0 || len(opt.Byyearday) > 0 ||
		len(opt.Byweekno) > 0 || len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 ||
		len(opt.Byeaster) > 0 {
		return calendar.RecurrenceRule{}, rrule.ROption{}, fmt.Errorf("rrule %q uses unsupported parts: %w", value, calendar.ErrMalformed)
	}
	if !monthDayShape(rule.Type, opt.Bymonth, opt.Bymonthday) {
		return calendar.RecurrenceRule{}, rrule.ROption{}, fmt.Errorf("rrule %q uses unsupported BYMONTH/BYMONTHDAY: %w", value, calendar.ErrMalformed)
	}
	if !opt.Until.IsZero() {
		rule.EndDate = calendar.DateOf(opt.Until).String()
	}
	return rule, *opt, nil
}

// monthDayShape reports whether the BY parts are one of the month-end forms.
func monthDayShape(typ calendar.RepeatType, bymonth, bymonthday []int) bool {
	switch typ {
	case calendar.RepeatMonthly:
		return len(bymonth) == 0 && (len(bymonthday) == 0 || sameInts(bymonthday, []int{-1}))
	case calendar.RepeatYearly:
		if len(bymonth) > 1 {
			return false
		}
		return len(bymonthday) == 0 ||
			(sameInts(bymonth, []int{2}) && (sameInts(bymonthday, []int{-1}) || sameInts(bymonthday, []int{28, -1})))
	default:
		return len(bymonth) == 0 && len(bymonthday) == 0
	}
}

// sameInts compares a and b as sets.
func sameInts(a, b []int) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(slices.Compact(a), slices.Compact(b))
}
