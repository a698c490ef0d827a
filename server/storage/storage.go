package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"github.com/cyp0633/calview/calendar"
)

// Storage connects the REST server with your backend (e.g. a database).
// Implementations must be safe for concurrent use and return the error
// values below, wrapped or not, so the server can map them to status codes.
type Storage interface {
	// ListEvents returns every stored event in creation order.
	ListEvents(ctx context.Context) ([]calendar.Event, error)
	// GetEvent finds an event by ID.
	GetEvent(ctx context.Context, id string) (calendar.Event, error)
	// CreateEvent stores a new event. The ID is assigned by the storage and
	// any ID on the input is ignored.
	CreateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error)
	// UpdateEvent replaces the event with the same ID. A non-empty ifMatch
	// other than "*" must equal the ETag of the stored revision, checked
	// atomically with the write; otherwise ErrPreconditionFailed.
	UpdateEvent(ctx context.Context, ev calendar.Event, ifMatch string) (calendar.Event, error)
	// DeleteEvent removes an event, with the same ifMatch rule as UpdateEvent.
	DeleteEvent(ctx context.Context, id, ifMatch string) error
	// AddException cancels the occurrence of event id on date (YYYY-MM-DD).
	AddException(ctx context.Context, id, date string) (calendar.Event, error)
}

var (
	// ErrNotFound is returned when a requested event doesn't exist
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput is returned when the input parameters are invalid
	ErrInvalidInput = errors.New("invalid input parameters")
	// ErrConflict is returned when there's a conflict with an existing resource
	ErrConflict = errors.New("resource conflict")
	// ErrStorageUnavailable is returned when the storage backend is unavailable
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrPreconditionFailed is returned when If-Match names a stale revision
	ErrPreconditionFailed = errors.New("precondition failed")
)

// Matches reports whether ifMatch admits a write over current. An empty
// value or "*" always matches.
func Matches(ifMatch string, current calendar.Event) bool {
	return ifMatch == "" || ifMatch == "*" || ifMatch == ETag(current)
}

// ETag derives the entity tag of one event revision.
// Generating etags is the storage's job; the server only compares them.
func ETag(ev calendar.Event) string {
	var b strings.Builder
	for _, field := range []string{
		ev.ID, ev.Title, ev.Date, ev.StartTime, ev.EndTime, ev.Description,
		ev.Location, string(ev.Category), ev.Repeat.Type.String(),
		strconv.Itoa(ev.Repeat.Interval), ev.Repeat.EndDate,
		strconv.Itoa(ev.NotificationTime), strings.Join(ev.ExceptionList, ","),
	} {
		b.WriteString(field)
		b.WriteByte(0)
	}
	hash := sha1.Sum([]byte(b.String()))
	return `"` + hex.EncodeToString(hash[:]) + `"`
}
