package server

import (
	"net/http"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/view"
)

// handleList answers GET /api/events. The optional q parameter searches
// title, description and location; view (week or month) with date
// (defaulting to today) keeps events occurring in that window.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	term := query.Get("q")

	s.logger.Debug("list request received",
		"q", term,
		"view", query.Get("view"),
		"date", query.Get("date"),
		"user", principalID(r))

	events, ok := s.listEvents(w, r)
	if !ok {
		return
	}

	if query.Get("view") == "" {
		s.writeJSON(w, http.StatusOK, eventsResponse{Events: view.Search(events, term)})
		return
	}

	mode, err := view.ParseMode(query.Get("view"))
	if err != nil {
		s.fail(w, r, err, "invalid view mode")
		return
	}

	anchor := calendar.DateOf(s.now())
	if raw := query.Get("date"); raw != "" {
		anchor, err = calendar.ParseDate(raw)
		if err != nil {
			s.fail(w, r, err, "invalid view date")
			return
		}
	}

	filtered := view.FilteredEvents(s.engine, events, term, anchor, mode)
	s.logger.Debug("events filtered",
		"total", len(events),
		"matched", len(filtered))
	s.writeJSON(w, http.StatusOK, eventsResponse{Events: filtered})
}

// handleGet answers GET /api/events/{id} with the event and its ETag.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.logger.Debug("get request received",
		"id", id)

	ev, err := s.storage.GetEvent(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "failed to get event")
		return
	}

	w.Header().Set(headerETag, s.etag(ev))
	s.writeJSON(w, http.StatusOK, ev)
}
