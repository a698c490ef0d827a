package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cyp0633/calview/notify"
	"github.com/cyp0633/calview/server/storage"
)

type notificationsResponse struct {
	New     []notify.Notification `json:"new"`
	Pending []notify.Notification `json:"pending"`
}

// handleNotifications announces the reminders due at now (RFC 3339, default
// the server clock) and lists the ones not yet dismissed.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	if raw := r.URL.Query().Get("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.fail(w, r, fmt.Errorf("now %q: %w: %w", raw, storage.ErrInvalidInput, err), "invalid notification time")
			return
		}
		now = parsed
	}

	events, ok := s.listEvents(w, r)
	if !ok {
		return
	}

	fresh := s.tracker.Check(events, now)
	for _, n := range fresh {
		s.logger.Info("notification due",
			"id", n.ID,
			"message", n.Message)
	}

	s.writeJSON(w, http.StatusOK, notificationsResponse{
		New:     fresh,
		Pending: s.tracker.Pending(),
	})
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.tracker.Dismiss(id) {
		s.logger.Debug("dismissed notification was not pending",
			"id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}
