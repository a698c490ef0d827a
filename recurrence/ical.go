package recurrence

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/cyp0633/calview/calendar"
)

const (
	floatingLayout = "20060102T150405"
	dateLayout     = "20060102"

	productID = "-//calview//Calendar View 1.0//KO"
)

// setFloating writes a DATE-TIME without zone information.
func setFloating(props ical.Props, name string, t time.Time) {
	prop := ical.NewProp(name)
	prop.Value = t.Format(floatingLayout)
	props.Set(prop)
}

// ToComponent converts ev into a VEVENT. Times are written floating since
// events carry no zone.
func ToComponent(ev calendar.Event) (*ical.Component, error) {
	anchor, err := ev.Anchor()
	if err != nil {
		return nil, fmt.Errorf("event %q: %w", ev.ID, err)
	}
	start, err := calendar.ParseClock(ev.StartTime)
	if err != nil {
		return nil, fmt.Errorf("event %q start: %w", ev.ID, err)
	}
	end, err := calendar.ParseClock(ev.EndTime)
	if err != nil {
		return nil, fmt.Errorf("event %q end: %w", ev.ID, err)
	}

	uid := ev.ID
	if uid == "" {
		uid = uuid.NewString()
	}

	comp := ical.NewComponent(ical.CompEvent)
	comp.Props.SetText(ical.PropUID, uid)
	comp.Props.SetText(ical.PropSummary, ev.Title)
	if ev.Description != "" {
		comp.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		comp.Props.SetText(ical.PropLocation, ev.Location)
	}
	if ev.Category != "" {
		comp.Props.SetText(ical.PropCategories, string(ev.Category))
	}

	base := anchor.Time(time.UTC)
	setFloating(comp.Props, ical.PropDateTimeStart, base.Add(time.Duration(start)*time.Minute))
	setFloating(comp.Props, ical.PropDateTimeEnd, base.Add(time.Duration(end)*time.Minute))

	if ev.Repeat.Repeats() {
		rule, err := RRuleString(ev)
		if err != nil {
			return nil, err
		}
		prop := ical.NewProp(ical.PropRecurrenceRule)
		prop.Value = rule
		comp.Props.Set(prop)

		var exdates []string
		for _, ex := range ev.ExceptionList {
			d, err := calendar.ParseDate(ex)
			if err != nil {
				continue
			}
			exdates = append(exdates, d.Time(time.UTC).Add(time.Duration(start)*time.Minute).Format(floatingLayout))
		}
		if len(exdates) > 0 {
			prop := ical.NewProp(ical.PropExceptionDates)
			prop.Value = strings.Join(exdates, ",")
			comp.Props.Set(prop)
		}
	}

	if ev.NotificationTime > 0 {
		alarm := ical.NewComponent(ical.CompAlarm)
		alarm.Props.SetText(ical.PropAction, "DISPLAY")
		alarm.Props.SetText(ical.PropDescription, ev.Title)
		trigger := ical.NewProp(ical.PropTrigger)
		trigger.Value = "-PT" + strconv.Itoa(ev.NotificationTime) + "M"
		alarm.Props.Set(trigger)
		comp.Children = append(comp.Children, alarm)
	}

	return comp, nil
}

// FromComponent converts a VEVENT back into an event. Timed values are read
// as floating wall-clock times.
func FromComponent(comp *ical.Component) (calendar.Event, error) {
	if comp.Name != ical.CompEvent {
		return calendar.Event{}, fmt.Errorf("component %s is not a %s: %w", comp.Name, ical.CompEvent, calendar.ErrMalformed)
	}

	var ev calendar.Event
	ev.ID, _ = comp.Props.Text(ical.PropUID)
	ev.Title, _ = comp.Props.Text(ical.PropSummary)
	ev.Description, _ = comp.Props.Text(ical.PropDescription)
	ev.Location, _ = comp.Props.Text(ical.PropLocation)
	if cat, _ := comp.Props.Text(ical.PropCategories); cat != "" {
		ev.Category = calendar.Category(cat)
	}

	start, err := comp.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("event %q DTSTART: %w", ev.ID, err)
	}
	end, err := comp.Props.DateTime(ical.PropDateTimeEnd, time.UTC)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("event %q DTEND: %w", ev.ID, err)
	}
	ev.Date = calendar.DateOf(start).String()
	ev.StartTime = start.Format(calendar.ClockLayout)
	ev.EndTime = end.Format(calendar.ClockLayout)

	ev.Repeat = calendar.RecurrenceRule{Type: calendar.RepeatNone}
	if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil && prop.Value != "" {
		anchor, err := calendar.ParseDate(ev.Date)
		if err != nil {
			return calendar.Event{}, fmt.Errorf("event %q: %w", ev.ID, err)
		}
		rule, err := ParseRRuleFor(prop.Value, anchor)
		if err != nil {
			return calendar.Event{}, fmt.Errorf("event %q: %w", ev.ID, err)
		}
		ev.Repeat = rule
	}

	for _, prop := range comp.Props[ical.PropExceptionDates] {
		for _, raw := range strings.Split(prop.Value, ",") {
			d, err := parseExceptionDate(strings.TrimSpace(raw))
			if err != nil {
				return calendar.Event{}, fmt.Errorf("event %q EXDATE: %w", ev.ID, err)
			}
			ev.ExceptionList = append(ev.ExceptionList, d.String())
		}
	}

	for _, child := range comp.Children {
		if child.Name != ical.CompAlarm {
			continue
		}
		trigger := child.Props.Get(ical.PropTrigger)
		if trigger == nil {
			continue
		}
		if minutes, ok := parseTrigger(trigger.Value); ok {
			ev.NotificationTime = minutes
			break
		}
	}

	return ev, nil
}

var triggerRegex = regexp.MustCompile(`^-P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?)?$`)

// parseTrigger reads a relative "before start" trigger such as -PT10M or
// -P1DT2H into whole minutes.
func parseTrigger(value string) (int, bool) {
	m := triggerRegex.FindStringSubmatch(value)
	if m == nil || value == "-P" || value == "-PT" {
		return 0, false
	}
	total := 0
	for i, mult := range []int{24 * 60, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, false
		}
		total += n * mult
	}
	return total, total > 0
}

func parseExceptionDate(raw string) (calendar.Date, error) {
	for _, layout := range []string{floatingLayout, floatingLayout + "Z", dateLayout} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return calendar.DateOf(t), nil
		}
	}
	return calendar.Date{}, fmt.Errorf("exception date %q: %w", raw, calendar.ErrMalformed)
}

// ExportCalendar wraps the given events in a VCALENDAR. Each VEVENT is
// stamped with stamp.
func ExportCalendar(events []calendar.Event, stamp time.Time) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	for _, ev := range events {
		comp, err := ToComponent(ev)
		if err != nil {
			return nil, err
		}
		comp.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		cal.Children = append(cal.Children, comp)
	}
	return cal, nil
}

// EncodeCalendar writes events as an iCalendar stream.
func EncodeCalendar(w io.Writer, events []calendar.Event, stamp time.Time) error {
	cal, err := ExportCalendar(events, stamp)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

// DecodeCalendar reads every VEVENT of an iCalendar stream.
func DecodeCalendar(r io.Reader) ([]calendar.Event, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}
	var events []calendar.Event
	for _, child := range cal.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		ev, err := FromComponent(child)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
