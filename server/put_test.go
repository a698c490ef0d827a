package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/server/storage"
)

func validDraft() calendar.Event {
	return calendar.Event{
		Title:     "새 일정",
		Date:      "2024-10-15",
		StartTime: "09:00",
		EndTime:   "10:00",
		Category:  calendar.CategoryWork,
		Repeat:    calendar.RecurrenceRule{Type: calendar.RepeatNone},
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	mockStorage := &storage.MockStorage{}
	srv, err := New(mockStorage, WithLogger(testLogger()))
	require.NoError(t, err)

	tests := []struct {
		name            string
		body            any
		expectedMessage string
	}{
		{"malformed json", `{"title": `, "request body"},
		{"missing title", func() calendar.Event { ev := validDraft(); ev.Title = ""; return ev }(), "title"},
		{"bad date", func() calendar.Event { ev := validDraft(); ev.Date = "2024-02-30"; return ev }(), "2024-02-30"},
		{"start after end", func() calendar.Event { ev := validDraft(); ev.StartTime = "11:00"; return ev }(), "start time must be before end time"},
		{"zero interval", func() calendar.Event {
			ev := validDraft()
			ev.Repeat = calendar.RecurrenceRule{Type: calendar.RepeatDaily}
			return ev
		}(), "interval"},
		{"unknown category", func() calendar.Event { ev := validDraft(); ev.Category = "취미"; return ev }(), "category"},
		{"unknown repeat type", `{"title":"a","date":"2024-10-15","startTime":"09:00","endTime":"10:00","repeat":{"type":"hourly"}}`, "hourly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(srv, http.MethodPost, "/api/events", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody[errorResponse](t, w).Message, tt.expectedMessage)
		})
	}

	// Nothing reached the storage.
	mockStorage.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestHandleCreate_StorageError(t *testing.T) {
	mockStorage := &storage.MockStorage{}
	srv, err := New(mockStorage, WithLogger(testLogger()))
	require.NoError(t, err)

	mockStorage.On("CreateEvent", mock.Anything, validDraft()).
		Return(calendar.Event{}, errors.New("disk full")).Once()

	w := doRequest(srv, http.MethodPost, "/api/events", validDraft(), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal errors are not echoed to the client.
	assert.NotContains(t, w.Body.String(), "disk full")
	mockStorage.AssertExpectations(t)
}

func TestHandleUpdate(t *testing.T) {
	existing := storage.NewMockEvent("event1", "팀 회의", "2024-10-15", "09:00", "10:00")
	changed := existing
	changed.Title = "팀 회의 (변경)"

	tests := []struct {
		name           string
		path           string
		body           any
		setupMocks     func(m *storage.MockStorage)
		headers        map[string]string
		expectedStatus int
	}{
		{
			name: "Event not found",
			path: "/api/events/event1",
			body: changed,
			setupMocks: func(m *storage.MockStorage) {
				m.On("UpdateEvent", mock.Anything, changed, "").Return(calendar.Event{}, storage.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Body id differs from path",
			path:           "/api/events/other",
			body:           changed,
			setupMocks:     func(m *storage.MockStorage) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "ETag mismatch",
			path: "/api/events/event1",
			body: changed,
			setupMocks: func(m *storage.MockStorage) {
				m.On("UpdateEvent", mock.Anything, changed, `"stale"`).Return(calendar.Event{}, storage.ErrPreconditionFailed).Once()
			},
			headers:        map[string]string{"If-Match": `"stale"`},
			expectedStatus: http.StatusPreconditionFailed,
		},
		{
			name: "Successful update with If-Match",
			path: "/api/events/event1",
			body: changed,
			setupMocks: func(m *storage.MockStorage) {
				m.On("UpdateEvent", mock.Anything, changed, storage.ETag(existing)).Return(changed, nil).Once()
			},
			headers:        map[string]string{"If-Match": storage.ETag(existing)},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Missing body id is taken from path",
			path: "/api/events/event1",
			body: func() calendar.Event { ev := changed; ev.ID = ""; return ev }(),
			setupMocks: func(m *storage.MockStorage) {
				m.On("UpdateEvent", mock.Anything, changed, "").Return(changed, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Backend down",
			path: "/api/events/event1",
			body: changed,
			setupMocks: func(m *storage.MockStorage) {
				m.On("UpdateEvent", mock.Anything, changed, "").Return(calendar.Event{}, storage.ErrStorageUnavailable).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStorage := &storage.MockStorage{}
			tt.setupMocks(mockStorage)
			srv, err := New(mockStorage, WithLogger(testLogger()))
			require.NoError(t, err)

			w := doRequest(srv, http.MethodPut, tt.path, tt.body, tt.headers)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, storage.ETag(changed), w.Header().Get("ETag"))
			}
			mockStorage.AssertExpectations(t)
		})
	}
}
