package storage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cyp0633/calview/calendar"
)

// MockStorage implements the Storage interface for testing
type MockStorage struct {
	mock.Mock
}

var _ Storage = (*MockStorage)(nil)

// ListEvents implements the Storage interface
func (m *MockStorage) ListEvents(ctx context.Context) ([]calendar.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]calendar.Event), args.Error(1)
}

// GetEvent implements the Storage interface
func (m *MockStorage) GetEvent(ctx context.Context, id string) (calendar.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(calendar.Event), args.Error(1)
}

func (m *MockStorage) CreateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(calendar.Event), args.Error(1)
}

func (m *MockStorage) UpdateEvent(ctx context.Context, ev calendar.Event, ifMatch string) (calendar.Event, error) {
	args := m.Called(ctx, ev, ifMatch)
	return args.Get(0).(calendar.Event), args.Error(1)
}

func (m *MockStorage) DeleteEvent(ctx context.Context, id, ifMatch string) error {
	args := m.Called(ctx, id, ifMatch)
	return args.Error(0)
}

func (m *MockStorage) AddException(ctx context.Context, id, date string) (calendar.Event, error) {
	args := m.Called(ctx, id, date)
	return args.Get(0).(calendar.Event), args.Error(1)
}

// --- Helper methods for creating test data ---

// NewMockEvent creates a one-off test event
func NewMockEvent(id, title, date, start, end string) calendar.Event {
	return calendar.Event{
		ID:               id,
		Title:            title,
		Date:             date,
		StartTime:        start,
		EndTime:          end,
		Category:         calendar.CategoryWork,
		Repeat:           calendar.RecurrenceRule{Type: calendar.RepeatNone},
		NotificationTime: 10,
		ExceptionList:    []string{},
	}
}

// --- Convenience methods for setting up common test scenarios ---

// SetupEvents makes ListEvents return events and GetEvent find each of them.
// Unknown IDs answer ErrNotFound. None of these calls is required.
func (m *MockStorage) SetupEvents(events ...calendar.Event) {
	m.ExpectedCalls = removeMatchingCalls(m.ExpectedCalls, "ListEvents")
	m.ExpectedCalls = removeMatchingCalls(m.ExpectedCalls, "GetEvent")

	m.On("ListEvents", mock.Anything).Return(events, nil).Maybe()
	for _, ev := range events {
		m.On("GetEvent", mock.Anything, ev.ID).Return(ev, nil).Maybe()
	}
	m.On("GetEvent", mock.Anything, mock.Anything).Return(calendar.Event{}, ErrNotFound).Maybe()
}

// Helper to remove existing mock calls of a method
func removeMatchingCalls(calls []*mock.Call, method string) []*mock.Call {
	result := make([]*mock.Call, 0, len(calls))
	for _, call := range calls {
		if call.Method == method {
			continue
		}
		result = append(result, call)
	}
	return result
}
