package recurrence

import (
	"time"

	"github.com/samber/mo"

	"github.com/cyp0633/calview/calendar"
)

// firstOccurrence returns the earliest occurrence of ev within [start, end].
func (e *Engine) firstOccurrence(ev calendar.Event, start, end calendar.Date) mo.Option[calendar.Date] {
	found := mo.None[calendar.Date]()
	e.walk(ev, start, end, func(d calendar.Date) bool {
		found = mo.Some(d)
		return false
	})
	return found
}

// walk calls yield for each occurrence of ev in [start, end] in ascending
// order until yield returns false. Only days the rule can produce are visited,
// so the cost depends on the number of candidates, not the width of the range.
func (e *Engine) walk(ev calendar.Event, start, end calendar.Date, yield func(calendar.Date) bool) {
	if end.Before(start) {
		return
	}
	anchor, err := ev.Anchor()
	if err != nil {
		return
	}

	rule := ev.Repeat
	if rule.Type == calendar.RepeatNone {
		if calendar.IsDateInRange(anchor, start, end) && !ev.IsException(anchor.String()) {
			yield(anchor)
		}
		return
	}

	lo, hi := start, end
	if anchor.After(lo) {
		lo = anchor
	}
	bound, err := rule.End()
	if err != nil {
		return
	}
	if until, ok := bound.Get(); ok && until.Before(hi) {
		hi = until
	}
	if hi.Before(lo) {
		return
	}

	emit := func(d calendar.Date) bool {
		if ev.IsException(d.String()) {
			return true
		}
		return yield(d)
	}

	step := rule.Step()
	switch rule.Type {
	case calendar.RepeatDaily:
		walkDays(anchor, lo, hi, step, emit)
	case calendar.RepeatWeekly:
		walkDays(anchor, lo, hi, 7*step, emit)
	case calendar.RepeatMonthly:
		walkMonths(anchor, lo, hi, step, emit)
	case calendar.RepeatYearly:
		walkYears(anchor, lo, hi, step, emit)
	}
}

func walkDays(anchor, lo, hi calendar.Date, stride int, emit func(calendar.Date) bool) {
	k := ceilDiv(lo.DaysSince(anchor), stride) * stride
	for d := anchor.AddDays(k); !d.After(hi); d = d.AddDays(stride) {
		if !emit(d) {
			return
		}
	}
}

func walkMonths(anchor, lo, hi calendar.Date, step int, emit func(calendar.Date) bool) {
	base := anchor.Year()*12 + int(anchor.Month()) - 1
	for k := ceilDiv(lo.MonthsSince(anchor), step) * step; ; k += step {
		year, month := (base+k)/12, (base+k)%12+1
		if calendar.NewDate(year, time.Month(month), 1).After(hi) {
			return
		}
		day := clampedDay(anchor, year, month)
		if day == 0 {
			continue
		}
		d := calendar.NewDate(year, time.Month(month), day)
		if d.Before(lo) {
			continue
		}
		if d.After(hi) || !emit(d) {
			return
		}
	}
}

func walkYears(anchor, lo, hi calendar.Date, step int, emit func(calendar.Date) bool) {
	month := int(anchor.Month())
	for k := ceilDiv(lo.Year()-anchor.Year(), step) * step; anchor.Year()+k <= hi.Year(); k += step {
		year := anchor.Year() + k
		for _, day := range yearlyDays(anchor, year) {
			d := calendar.NewDate(year, time.Month(month), day)
			if d.Before(lo) {
				continue
			}
			if d.After(hi) || !emit(d) {
				return
			}
		}
	}
}

// ceilDiv rounds a/b up for a >= 0 and b > 0.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
