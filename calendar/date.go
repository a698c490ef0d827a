package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformed is returned when a date or time string does not have the expected shape.
	ErrMalformed = errors.New("malformed value")
	// ErrOutOfRange is returned when a well-shaped value names a day or clock time that does not exist.
	ErrOutOfRange = errors.New("value out of range")
)

const (
	// DateLayout is the wire layout of calendar dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire layout of wall-clock times.
	ClockLayout = "15:04"

	secondsPerDay = 24 * 60 * 60
)

var (
	dateRegex  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	clockRegex = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

// Date is a calendar day without a clock time or zone.
// The zero value is not a valid date; use IsZero to detect it.
type Date struct {
	t time.Time // always midnight UTC
}

// NewDate builds a Date, normalizing overflowing months and days the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, fmt.Errorf("empty date: %w", ErrMalformed)
	}
	m := dateRegex.FindStringSubmatch(s)
	if m == nil {
		return Date{}, fmt.Errorf("date %q: %w", s, ErrMalformed)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 || day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("date %q: %w", s, ErrOutOfRange)
	}
	return NewDate(year, time.Month(month), day), nil
}

// MustParseDate is like ParseDate but panics on error. Intended for tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

// DaysSince returns the signed number of days from o to d.
func (d Date) DaysSince(o Date) int {
	return int((d.t.Unix() - o.t.Unix()) / secondsPerDay)
}

// MonthsSince returns the signed number of calendar months from o to d, ignoring the day.
func (d Date) MonthsSince(o Date) int {
	return (d.Year()-o.Year())*12 + int(d.Month()) - int(o.Month())
}

// LastDayOfMonth returns the number of the last day in d's month.
func (d Date) LastDayOfMonth() int {
	return DaysInMonth(d.Year(), int(d.Month()))
}

// IsLastDayOfMonth reports whether d is the final day of its month.
func (d Date) IsLastDayOfMonth() bool {
	return d.Day() == d.LastDayOfMonth()
}

// FirstOfMonth returns day 1 of d's month.
func (d Date) FirstOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date {
	return NewDate(d.Year(), d.Month(), d.LastDayOfMonth())
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return FormatDate(d)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysInMonth returns the number of days in month (1-12) of year, or 0 for any other month.
func DaysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeapYear reports whether year has a February 29.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// FillZero left-pads value with zeros to size digits. Wider values are returned as is.
func FillZero(value, size int) string {
	s := strconv.Itoa(value)
	if len(s) >= size {
		return s
	}
	return strings.Repeat("0", size-len(s)) + s
}

// FormatDate formats d as YYYY-MM-DD.
func FormatDate(d Date) string {
	return FillZero(d.Year(), 4) + "-" + FillZero(int(d.Month()), 2) + "-" + FillZero(d.Day(), 2)
}

// IsDateInRange reports whether start <= d <= end.
func IsDateInRange(d, start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}
