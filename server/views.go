package server

import (
	"net/http"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/view"
)

type dayResponse struct {
	Date    string           `json:"date"`
	Holiday string           `json:"holiday,omitempty"`
	Events  []calendar.Event `json:"events"`
}

type weekResponse struct {
	Label  string                      `json:"label"`
	Dates  []string                    `json:"dates"`
	Events map[string][]calendar.Event `json:"events"`
}

type monthResponse struct {
	Label    string                      `json:"label"`
	Weeks    []view.Week                 `json:"weeks"`
	Holidays map[string]string           `json:"holidays"`
	Events   map[string][]calendar.Event `json:"events"`
}

// occurrencesByDate maps each of dates that has occurrences to its events.
func (s *Server) occurrencesByDate(events []calendar.Event, dates []calendar.Date) map[string][]calendar.Event {
	out := make(map[string][]calendar.Event)
	for _, d := range dates {
		key := d.String()
		if on := view.OccurrencesOnDay(s.engine, events, key); len(on) > 0 {
			out[key] = on
		}
	}
	return out
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	d, err := pathDate(r)
	if err != nil {
		s.fail(w, r, err, "invalid day")
		return
	}
	events, ok := s.listEvents(w, r)
	if !ok {
		return
	}

	key := d.String()
	s.writeJSON(w, http.StatusOK, dayResponse{
		Date:    key,
		Holiday: view.Holidays(d.Year(), int(d.Month()))[key],
		Events:  view.OccurrencesOnDay(s.engine, events, key),
	})
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	d, err := pathDate(r)
	if err != nil {
		s.fail(w, r, err, "invalid week anchor")
		return
	}
	events, ok := s.listEvents(w, r)
	if !ok {
		return
	}

	dates := view.WeekDates(d)
	labels := make([]string, len(dates))
	for i, day := range dates {
		labels[i] = day.String()
	}

	s.writeJSON(w, http.StatusOK, weekResponse{
		Label:  view.FormatWeek(d),
		Dates:  labels,
		Events: s.occurrencesByDate(events, dates),
	})
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	d, err := pathDate(r)
	if err != nil {
		s.fail(w, r, err, "invalid month anchor")
		return
	}
	events, ok := s.listEvents(w, r)
	if !ok {
		return
	}

	first, last := view.MonthRange(d)
	var dates []calendar.Date
	for day := first; !day.After(last); day = day.AddDays(1) {
		dates = append(dates, day)
	}

	s.writeJSON(w, http.StatusOK, monthResponse{
		Label:    view.FormatMonth(d),
		Weeks:    view.MonthGrid(d),
		Holidays: view.Holidays(d.Year(), int(d.Month())),
		Events:   s.occurrencesByDate(events, dates),
	})
}
