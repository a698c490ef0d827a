package server

import (
	"fmt"
	"net/http"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/server/storage"
)

func (s *Server) etag(ev calendar.Event) string {
	return storage.ETag(ev)
}

// handleCreate answers POST /api/events. The storage assigns the ID.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var ev calendar.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		s.fail(w, r, err, "invalid event body")
		return
	}

	if err := calendar.ValidateForm(ev); err != nil {
		s.fail(w, r, err, "event validation failed")
		return
	}

	created, err := s.storage.CreateEvent(r.Context(), ev)
	if err != nil {
		s.fail(w, r, err, "failed to create event")
		return
	}

	s.logger.Info("event created successfully",
		"id", created.ID,
		"title", created.Title,
		"user", principalID(r))

	w.Header().Set(headerLocation, eventsPath+created.ID)
	w.Header().Set(headerETag, s.etag(created))
	s.writeJSON(w, http.StatusCreated, created)
}

// handleUpdate answers PUT /api/events/{id}. An If-Match header must name
// the current revision.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var ev calendar.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		s.fail(w, r, err, "invalid event body")
		return
	}
	if ev.ID != "" && ev.ID != id {
		s.fail(w, r, fmt.Errorf("body id %q does not match path id %q: %w", ev.ID, id, storage.ErrInvalidInput), "event id mismatch")
		return
	}
	ev.ID = id

	if err := calendar.ValidateForm(ev); err != nil {
		s.fail(w, r, err, "event validation failed")
		return
	}

	updated, err := s.storage.UpdateEvent(r.Context(), ev, r.Header.Get(headerIfMatch))
	if err != nil {
		s.fail(w, r, err, "failed to update event")
		return
	}

	s.logger.Info("event updated successfully",
		"id", updated.ID,
		"user", principalID(r))

	w.Header().Set(headerETag, s.etag(updated))
	s.writeJSON(w, http.StatusOK, updated)
}
