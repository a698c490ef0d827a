package server

import (
	"net/http"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/overlap"
)

type overlapsResponse struct {
	Overlaps []calendar.Event `json:"overlaps"`
}

// handleOverlaps answers POST /api/overlaps with the stored events that
// clash with the draft in the body. The draft is not validated: a draft
// whose times do not parse simply clashes with nothing.
func (s *Server) handleOverlaps(w http.ResponseWriter, r *http.Request) {
	var draft calendar.Event
	if err := decodeJSON(w, r, &draft); err != nil {
		s.fail(w, r, err, "invalid draft body")
		return
	}

	events, ok := s.listEvents(w, r)
	if !ok {
		return
	}

	found := overlap.FindOverlapping(draft, events)
	s.logger.Debug("overlap check",
		"draft_id", draft.ID,
		"date", draft.Date,
		"overlaps", len(found))
	s.writeJSON(w, http.StatusOK, overlapsResponse{Overlaps: found})
}
