package calendar

import (
	"fmt"
	"slices"

	"github.com/samber/mo"
)

// RepeatType selects the recurrence kind of an event.
type RepeatType int

const (
	RepeatNone RepeatType = iota
	RepeatDaily
	RepeatWeekly
	RepeatMonthly
	RepeatYearly
)

var repeatTypeNames = map[RepeatType]string{
	RepeatNone:    "none",
	RepeatDaily:   "daily",
	RepeatWeekly:  "weekly",
	RepeatMonthly: "monthly",
	RepeatYearly:  "yearly",
}

func (t RepeatType) String() string {
	if s, ok := repeatTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("RepeatType(%d)", int(t))
}

// ParseRepeatType maps the wire name of a recurrence kind. The empty string means none.
func ParseRepeatType(s string) (RepeatType, error) {
	if s == "" {
		return RepeatNone, nil
	}
	for t, name := range repeatTypeNames {
		if name == s {
			return t, nil
		}
	}
	return RepeatNone, fmt.Errorf("repeat type %q: %w", s, ErrMalformed)
}

func (t RepeatType) MarshalText() ([]byte, error) {
	if _, ok := repeatTypeNames[t]; !ok {
		return nil, fmt.Errorf("repeat type %d: %w", int(t), ErrOutOfRange)
	}
	return []byte(t.String()), nil
}

func (t *RepeatType) UnmarshalText(b []byte) error {
	parsed, err := ParseRepeatType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// RecurrenceRule describes how an event repeats after its anchor date.
type RecurrenceRule struct {
	Type     RepeatType `json:"type" yaml:"type"`
	Interval int        `json:"interval" yaml:"interval"`
	// EndDate is an inclusive YYYY-MM-DD bound; empty means the series never ends.
	EndDate string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

// Repeats reports whether the rule produces more than the anchor occurrence.
func (r RecurrenceRule) Repeats() bool {
	return r.Type != RepeatNone
}

// Step returns the interval used for modulo checks. Non-positive intervals count as 1.
func (r RecurrenceRule) Step() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

// End returns the parsed end date; absent when none is set. A malformed end
// date is an error, and such a series never occurs.
func (r RecurrenceRule) End() (mo.Option[Date], error) {
	if r.EndDate == "" {
		return mo.None[Date](), nil
	}
	d, err := ParseDate(r.EndDate)
	if err != nil {
		return mo.None[Date](), fmt.Errorf("end date: %w", err)
	}
	return mo.Some(d), nil
}

// Category is one of a small closed set of labels.
type Category string

const (
	CategoryWork     Category = "업무"
	CategoryPersonal Category = "개인"
	CategoryFamily   Category = "가족"
	CategoryOther    Category = "기타"
)

// Categories lists the accepted categories in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryFamily, CategoryOther}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Event is one revision of a calendar entry. Functions in this module treat
// events as read-only snapshots.
type Event struct {
	ID               string         `json:"id" yaml:"id"`
	Title            string         `json:"title" yaml:"title"`
	Date             string         `json:"date" yaml:"date"`
	StartTime        string         `json:"startTime" yaml:"startTime"`
	EndTime          string         `json:"endTime" yaml:"endTime"`
	Description      string         `json:"description" yaml:"description"`
	Location         string         `json:"location" yaml:"location"`
	Category         Category       `json:"category" yaml:"category"`
	Repeat           RecurrenceRule `json:"repeat" yaml:"repeat"`
	NotificationTime int            `json:"notificationTime" yaml:"notificationTime"`
	ExceptionList    []string       `json:"exceptionList" yaml:"exceptionList"`
}

// Anchor returns the parsed event date, the first possible occurrence.
func (e Event) Anchor() (Date, error) {
	return ParseDate(e.Date)
}

// IsException reports whether date (YYYY-MM-DD) is listed as a cancelled occurrence.
func (e Event) IsException(date string) bool {
	return slices.Contains(e.ExceptionList, date)
}

// WithException returns a copy of e with date appended to its exception list.
// Dates already present are not duplicated.
func (e Event) WithException(date string) Event {
	if e.IsException(date) {
		return e.Clone()
	}
	out := e.Clone()
	out.ExceptionList = append(out.ExceptionList, date)
	return out
}

// Clone returns a deep copy of e.
func (e Event) Clone() Event {
	out := e
	out.ExceptionList = slices.Clone(e.ExceptionList)
	return out
}
