/*
Package server provides a REST server for calendar events that can be
integrated into Go applications.

# Basic Usage

The simplest way to use this package is with the provided in-memory storage:

	store := memory.New()
	srv, err := server.New(store)
	if err != nil {
		log.Fatal(err)
	}
	http.Handle("/", srv)
	http.ListenAndServe(":8080", nil)

# Routes

	GET    /api/events                    list; q searches, view=week|month with date filters
	POST   /api/events                    create, the storage assigns the ID
	GET    /api/events/{id}               one event, with its ETag
	PUT    /api/events/{id}               replace; If-Match is honored
	DELETE /api/events/{id}               delete; If-Match is honored
	POST   /api/events/{id}/exceptions    cancel one occurrence: {"date": "YYYY-MM-DD"}
	POST   /api/overlaps                  stored events clashing with a draft
	GET    /api/days/{date}               occurrences on a day
	GET    /api/weeks/{date}              week label, dates and occurrences
	GET    /api/months/{date}             month label, grid, holidays and occurrences
	GET    /api/notifications             reminders due at now (RFC 3339)
	DELETE /api/notifications/{id}        dismiss a reminder
	POST   /api/import                    store the VEVENTs of a text/calendar body
	GET    /calendar.ics                  iCalendar export
	GET    /calendar.xml                  xCal export

Errors are answered as JSON {"message": "..."}.

# Custom Storage Backend

To implement your own storage backend, implement the storage.Storage
interface and return storage.ErrNotFound, storage.ErrInvalidInput,
storage.ErrConflict and storage.ErrPreconditionFailed (wrapped or not) so the
server can pick status codes. UpdateEvent and DeleteEvent receive the client's
If-Match value; compare it with storage.Matches in the same transaction as the
write:

	type SQLStorage struct {
		db *sql.DB
	}

	func (s *SQLStorage) GetEvent(ctx context.Context, id string) (calendar.Event, error) {
		var ev calendar.Event
		err := s.db.QueryRowContext(ctx,
			"SELECT id, title, date, start_time, end_time FROM events WHERE id = ?", id,
		).Scan(&ev.ID, &ev.Title, &ev.Date, &ev.StartTime, &ev.EndTime)
		if err == sql.ErrNoRows {
			return calendar.Event{}, fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
		}
		return ev, err
	}

	// ... implement other methods ...

# Options

WithEngine installs a caching recurrence.Engine, WithMetrics records
Prometheus metrics, WithAuthenticator requires HTTP Basic credentials and
WithLogger sets the slog logger.

See server/example for a complete example implementation.
*/
package server
