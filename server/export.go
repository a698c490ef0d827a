package server

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/recurrence"
	"github.com/cyp0633/calview/server/storage"
)

// handleICS exports every event as an iCalendar stream.
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	events, ok := s.listEvents(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := recurrence.EncodeCalendar(&buf, events, s.now()); err != nil {
		s.fail(w, r, err, "failed to encode calendar")
		return
	}

	s.logger.Debug("calendar exported",
		"format", "ics",
		"events", len(events))
	w.Header().Set(headerContentType, mimeTypeCalendar)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// handleXCal exports every event as xCal.
func (s *Server) handleXCal(w http.ResponseWriter, r *http.Request) {
	events, ok := s.listEvents(w, r)
	if !ok {
		return
	}

	cal, err := recurrence.ExportCalendar(events, s.now())
	if err != nil {
		s.fail(w, r, err, "failed to build calendar")
		return
	}

	var buf bytes.Buffer
	if err := EncodeXCal(&buf, cal); err != nil {
		s.fail(w, r, err, "failed to encode xcal")
		return
	}

	s.logger.Debug("calendar exported",
		"format", "xcal",
		"events", len(events))
	w.Header().Set(headerContentType, mimeTypeXCal)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// handleImport stores every VEVENT of an uploaded iCalendar stream as a new
// event. The whole upload is validated before anything is stored.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(headerContentType))
	if mediaType != "text/calendar" {
		s.logger.Warn("unsupported media type",
			"content_type", r.Header.Get(headerContentType))
		s.writeError(w, http.StatusUnsupportedMediaType, "Unsupported Media Type")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	events, err := recurrence.DecodeCalendar(r.Body)
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %w", storage.ErrInvalidInput, err), "invalid iCalendar data")
		return
	}
	for i, ev := range events {
		if err := calendar.ValidateForm(ev); err != nil {
			s.fail(w, r, fmt.Errorf("event %d (%s): %w", i, ev.ID, err), "imported event validation failed")
			return
		}
	}

	created := make([]calendar.Event, 0, len(events))
	for _, ev := range events {
		stored, err := s.storage.CreateEvent(r.Context(), ev)
		if err != nil {
			s.fail(w, r, err, "failed to store imported event")
			return
		}
		created = append(created, stored)
	}

	s.logger.Info("calendar imported",
		"events", len(created),
		"user", principalID(r))
	s.writeJSON(w, http.StatusCreated, eventsResponse{Events: created})
}
