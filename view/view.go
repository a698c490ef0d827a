// Package view computes the date windows of the week and month views and
// selects the events shown in them.
package view

import (
	"time"

	"github.com/cyp0633/calview/calendar"
)

// Recurrence answers occurrence questions for events. *recurrence.Engine
// implements it.
type Recurrence interface {
	OccursOn(ev calendar.Event, target calendar.Date) bool
	HasOccurrenceInRange(ev calendar.Event, start, end calendar.Date) bool
}

// Week is one row of a month grid. Cells hold day numbers; 0 marks a cell
// outside the month.
type Week [7]int

// DaysInMonth returns the number of days in month (1-12) of year, or 0 otherwise.
func DaysInMonth(year, month int) int {
	return calendar.DaysInMonth(year, month)
}

// WeekDates returns the seven dates of the Sunday-first week containing d.
func WeekDates(d calendar.Date) []calendar.Date {
	sunday := d.AddDays(-int(d.Weekday()))
	dates := make([]calendar.Date, 7)
	for i := range dates {
		dates[i] = sunday.AddDays(i)
	}
	return dates
}

// MonthGrid lays out the month of d as Sunday-first weeks.
func MonthGrid(d calendar.Date) []Week {
	first := d.FirstOfMonth()
	days := d.LastDayOfMonth()
	offset := int(first.Weekday())

	weeks := make([]Week, 0, 6)
	var week Week
	for day := 1; day <= days; day++ {
		idx := (offset + day - 1) % 7
		week[idx] = day
		if idx == 6 || day == days {
			weeks = append(weeks, week)
			week = Week{}
		}
	}
	return weeks
}

// MonthRange returns the first and last day of d's month.
func MonthRange(d calendar.Date) (calendar.Date, calendar.Date) {
	return d.FirstOfMonth(), d.EndOfMonth()
}

// OccurrencesOnDay returns the events occurring on date (YYYY-MM-DD), in
// input order. A malformed date yields no events.
func OccurrencesOnDay(engine Recurrence, events []calendar.Event, date string) []calendar.Event {
	out := []calendar.Event{}
	d, err := calendar.ParseDate(date)
	if err != nil {
		return out
	}
	for _, ev := range events {
		if engine.OccursOn(ev, d) {
			out = append(out, ev)
		}
	}
	return out
}

// FormatWeek labels the week of d as "YYYY년 MM월 W주". The week belongs to
// the month of its Thursday and is numbered from that month's first Thursday.
func FormatWeek(d calendar.Date) string {
	thursday := d.AddDays(int(time.Thursday) - int(d.Weekday()))
	first := thursday.FirstOfMonth()
	firstThursday := first.AddDays((int(time.Thursday) - int(first.Weekday()) + 7) % 7)
	week := thursday.DaysSince(firstThursday)/7 + 1

	return calendar.FillZero(thursday.Year(), 4) + "년 " +
		calendar.FillZero(int(thursday.Month()), 2) + "월 " +
		itoa(week) + "주"
}

// FormatMonth labels the month of d as "YYYY년 M월".
func FormatMonth(d calendar.Date) string {
	return itoa(d.Year()) + "년 " + itoa(int(d.Month())) + "월"
}

func itoa(n int) string {
	return calendar.FillZero(n, 1)
}
