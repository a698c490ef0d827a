package server

import (
	"net/http"
)

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.logger.Info("delete request received",
		"id", id,
		"user", principalID(r))

	if err := s.storage.DeleteEvent(r.Context(), id, r.Header.Get(headerIfMatch)); err != nil {
		s.fail(w, r, err, "failed to delete event")
		return
	}

	s.logger.Info("event deleted successfully",
		"id", id)
	w.WriteHeader(http.StatusNoContent)
}

type exceptionRequest struct {
	Date string `json:"date"`
}

// handleAddException cancels a single occurrence of a series, leaving the
// rest of it in place.
func (s *Server) handleAddException(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req exceptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err, "invalid exception body")
		return
	}

	updated, err := s.storage.AddException(r.Context(), id, req.Date)
	if err != nil {
		s.fail(w, r, err, "failed to add exception")
		return
	}

	s.logger.Info("occurrence cancelled",
		"id", id,
		"date", req.Date,
		"user", principalID(r))

	w.Header().Set(headerETag, s.etag(updated))
	s.writeJSON(w, http.StatusOK, updated)
}
