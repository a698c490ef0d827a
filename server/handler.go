package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/server/storage"
)

type errorResponse struct {
	Message string `json:"message"`
}

type eventsResponse struct {
	Events []calendar.Event `json:"events"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(headerContentType, mimeTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response",
			"error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Message: message})
}

// statusFor maps storage and validation errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, storage.ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	case errors.Is(err, storage.ErrInvalidInput),
		errors.Is(err, calendar.ErrMalformed),
		errors.Is(err, calendar.ErrOutOfRange),
		errors.Is(err, calendar.ErrMissingField),
		errors.Is(err, calendar.ErrTimeOrder),
		errors.Is(err, calendar.ErrInvalidInterval),
		errors.Is(err, calendar.ErrInvalidCategory):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and answers with the matching status. Server-side failures
// hide the error text from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		s.writeError(w, status, http.StatusText(status))
		return
	}
	s.logger.Warn(msg,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path)
	s.writeError(w, status, err.Error())
}

// decodeJSON reads a JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("request body: %w: %w", storage.ErrInvalidInput, err)
	}
	return nil
}

// listEvents loads every stored event.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) ([]calendar.Event, bool) {
	events, err := s.storage.ListEvents(r.Context())
	if err != nil {
		s.fail(w, r, err, "failed to list events")
		return nil, false
	}
	return events, true
}

// pathDate parses the {date} wildcard.
func pathDate(r *http.Request) (calendar.Date, error) {
	return calendar.ParseDate(r.PathValue("date"))
}
