package calendar

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField    = errors.New("required field missing")
	ErrTimeOrder       = errors.New("start time must be before end time")
	ErrInvalidInterval = errors.New("repeat interval must be positive")
	ErrInvalidCategory = errors.New("unknown category")
)

// ValidateForm checks an event draft before it is saved.
// An empty category is allowed; anything else must be one of Categories.
func ValidateForm(e Event) error {
	switch {
	case e.Title == "":
		return fmt.Errorf("title: %w", ErrMissingField)
	case e.Date == "":
		return fmt.Errorf("date: %w", ErrMissingField)
	case e.StartTime == "":
		return fmt.Errorf("startTime: %w", ErrMissingField)
	case e.EndTime == "":
		return fmt.Errorf("endTime: %w", ErrMissingField)
	}

	anchor, err := ParseDate(e.Date)
	if err != nil {
		return err
	}
	start, err := ParseClock(e.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(e.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("%s-%s: %w", e.StartTime, e.EndTime, ErrTimeOrder)
	}

	if e.Category != "" && !e.Category.Valid() {
		return fmt.Errorf("category %q: %w", e.Category, ErrInvalidCategory)
	}
	if e.NotificationTime < 0 {
		return fmt.Errorf("notificationTime %d: %w", e.NotificationTime, ErrOutOfRange)
	}

	if e.Repeat.Repeats() {
		if e.Repeat.Interval < 1 {
			return fmt.Errorf("interval %d: %w", e.Repeat.Interval, ErrInvalidInterval)
		}
		if e.Repeat.EndDate != "" {
			endDate, err := ParseDate(e.Repeat.EndDate)
			if err != nil {
				return fmt.Errorf("endDate: %w", err)
			}
			if endDate.Before(anchor) {
				return fmt.Errorf("endDate %s before date %s: %w", e.Repeat.EndDate, e.Date, ErrOutOfRange)
			}
		}
	}

	for _, ex := range e.ExceptionList {
		if _, err := ParseDate(ex); err != nil {
			return fmt.Errorf("exceptionList: %w", err)
		}
	}
	return nil
}
