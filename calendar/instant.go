package calendar

import (
	"fmt"
	"strconv"
	"time"

	"github.com/samber/mo"
)

// Clock is a wall-clock time of day, stored as minutes after midnight.
type Clock int

// ParseClock parses a strict HH:MM string with hour 0-23 and minute 0-59.
func ParseClock(s string) (Clock, error) {
	if s == "" {
		return 0, fmt.Errorf("empty time: %w", ErrMalformed)
	}
	m := clockRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("time %q: %w", s, ErrMalformed)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("time %q: %w", s, ErrOutOfRange)
	}
	return Clock(hour*60 + minute), nil
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return FillZero(c.Hour(), 2) + ":" + FillZero(c.Minute(), 2)
}

// Instant is either a valid wall-clock moment or Invalid.
//
// Instants are built in UTC so that arithmetic never crosses a DST transition;
// the zone carries no meaning.
type Instant struct {
	v mo.Option[time.Time]
}

// Invalid is the instant produced by any malformed date or time.
// Every ordering comparison involving it is false.
var Invalid = Instant{v: mo.None[time.Time]()}

// InstantOf wraps an existing time.
func InstantOf(t time.Time) Instant {
	return Instant{v: mo.Some(t)}
}

// ParseInstant combines a YYYY-MM-DD date and an HH:MM time.
// It never fails loudly: any malformed or out-of-range part yields Invalid.
func ParseInstant(date, clock string) Instant {
	if date == "" || clock == "" {
		return Invalid
	}
	d, err := ParseDate(date)
	if err != nil {
		return Invalid
	}
	c, err := ParseClock(clock)
	if err != nil {
		return Invalid
	}
	return At(d, c)
}

// At places clock c on day d.
func At(d Date, c Clock) Instant {
	return InstantOf(time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, time.UTC))
}

func (i Instant) IsValid() bool { return i.v.IsPresent() }

// Time returns the underlying time and whether the instant is valid.
func (i Instant) Time() (time.Time, bool) { return i.v.Get() }

// Before reports whether i is strictly earlier than o. False if either is Invalid.
func (i Instant) Before(o Instant) bool {
	a, okA := i.v.Get()
	b, okB := o.v.Get()
	return okA && okB && a.Before(b)
}

// After reports whether i is strictly later than o. False if either is Invalid.
func (i Instant) After(o Instant) bool {
	return o.Before(i)
}

// Equal reports whether both instants are valid and denote the same moment.
func (i Instant) Equal(o Instant) bool {
	a, okA := i.v.Get()
	b, okB := o.v.Get()
	return okA && okB && a.Equal(b)
}

func (i Instant) String() string {
	t, ok := i.v.Get()
	if !ok {
		return "Invalid Date"
	}
	return t.Format(DateLayout + "T" + ClockLayout)
}
