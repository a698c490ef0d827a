package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cyp0633/calview/notify"
	"github.com/cyp0633/calview/recurrence"
	"github.com/cyp0633/calview/server/storage"
)

const (
	// HTTP headers
	headerContentType = "Content-Type"
	headerETag        = "ETag"
	headerIfMatch     = "If-Match"
	headerLocation    = "Location"

	// MIME types
	mimeTypeJSON     = "application/json; charset=utf-8"
	mimeTypeCalendar = "text/calendar; charset=utf-8"
	mimeTypeXCal     = "application/calendar+xml; charset=utf-8"

	eventsPath = "/api/events/"

	// maxBodyBytes caps request bodies, including imported calendars.
	maxBodyBytes = 1 << 20
)

// Server serves the event REST API and the calendar exports.
type Server struct {
	storage storage.Storage
	engine  *recurrence.Engine
	tracker *notify.Tracker
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time

	authenticator authenticatorConfig

	mux     *http.ServeMux
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for the server
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEngine replaces the default uncached recurrence engine. The caller
// keeps ownership and closes it.
func WithEngine(engine *recurrence.Engine) Option {
	return func(s *Server) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithMetrics records request counts and latencies into m.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithClock overrides the time source used for default view anchors and
// notifications.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a server backed by store.
func New(store storage.Storage, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}

	s := &Server{
		storage: store,
		engine:  recurrence.NewEngine(),
		tracker: notify.NewTracker(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.handle("GET /api/events", s.handleList)
	s.handle("POST /api/events", s.handleCreate)
	s.handle("GET /api/events/{id}", s.handleGet)
	s.handle("PUT /api/events/{id}", s.handleUpdate)
	s.handle("DELETE /api/events/{id}", s.handleDelete)
	s.handle("POST /api/events/{id}/exceptions", s.handleAddException)
	s.handle("POST /api/overlaps", s.handleOverlaps)
	s.handle("GET /api/days/{date}", s.handleDay)
	s.handle("GET /api/weeks/{date}", s.handleWeek)
	s.handle("GET /api/months/{date}", s.handleMonth)
	s.handle("GET /api/notifications", s.handleNotifications)
	s.handle("DELETE /api/notifications/{id}", s.handleDismiss)
	s.handle("POST /api/import", s.handleImport)
	s.handle("GET /calendar.ics", s.handleICS)
	s.handle("GET /calendar.xml", s.handleXCal)

	s.handler = s.wrapAuth(s.mux)

	if s.metrics != nil && s.engine != nil {
		if err := s.metrics.observeEngine(s.engine, s.logger); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// handle registers h under pattern, instrumented when metrics are enabled.
func (s *Server) handle(pattern string, h http.HandlerFunc) {
	if s.metrics != nil {
		s.mux.Handle(pattern, s.metrics.instrument(pattern, h))
		return
	}
	s.mux.Handle(pattern, h)
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
