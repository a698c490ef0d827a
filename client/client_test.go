package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/server"
	"github.com/cyp0633/calview/server/auth/memory"
	storemem "github.com/cyp0633/calview/server/storage/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedEvents() []calendar.Event {
	return []calendar.Event{
		{
			ID: "1", Title: "팀 회의", Date: "2024-10-01", StartTime: "09:00", EndTime: "10:00",
			Description: "주간 팀 미팅", Location: "회의실 A", Category: calendar.CategoryWork,
			Repeat: calendar.RecurrenceRule{Type: calendar.RepeatWeekly, Interval: 1},
		},
		{
			ID: "2", Title: "점심 약속", Date: "2024-10-01", StartTime: "12:00", EndTime: "13:00",
			Location: "식당 B", Category: calendar.CategoryPersonal,
		},
		{
			ID: "3", Title: "프로젝트 마감", Date: "2024-10-20", StartTime: "17:00", EndTime: "18:00",
			Category: calendar.CategoryWork,
		},
	}
}

func newTestClient(t *testing.T, opts ...server.Option) EventClient {
	t.Helper()
	store := storemem.New()
	require.NoError(t, store.Seed(seedEvents()...))

	opts = append([]server.Option{
		server.WithLogger(discardLogger()),
		server.WithClock(func() time.Time { return time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC) }),
	}, opts...)
	srv, err := server.New(store, opts...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	c, err := New(ts.URL, DefaultConfig())
	require.NoError(t, err)
	return c
}

func titles(events []calendar.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Title)
	}
	return out
}

func TestNew_InvalidURL(t *testing.T) {
	for _, location := range []string{"", "localhost:8080", "ftp://example.com", "http://"} {
		_, err := New(location, nil)
		assert.Error(t, err, location)
	}
}

func TestReadEvents(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	all, err := c.ReadEvents().Do(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := c.ReadEvents().Search("식당").Do(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"점심 약속"}, titles(found))

	week, err := c.ReadEvents().Week(calendar.MustParseDate("2024-10-20")).Do(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"팀 회의", "프로젝트 마감"}, titles(week))

	month, err := c.ReadEvents().Search("회의").Month(calendar.MustParseDate("2024-10-01")).Do(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"팀 회의"}, titles(month))
}

func TestEventLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, etag, err := c.CreateEvent(ctx, calendar.Event{
		Title: "치과 예약", Date: "2024-10-05", StartTime: "15:00", EndTime: "16:00",
		Category: calendar.CategoryPersonal,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, etag)

	got, gotEtag, err := c.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, etag, gotEtag)

	got.Location = "연세치과"
	updated, newEtag, err := c.UpdateEvent(ctx, got, etag)
	require.NoError(t, err)
	assert.Equal(t, "연세치과", updated.Location)
	assert.NotEqual(t, etag, newEtag)

	// The first revision is stale now.
	got.Location = "다른 곳"
	_, _, err = c.UpdateEvent(ctx, got, etag)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// An empty etag updates the current revision.
	_, _, err = c.UpdateEvent(ctx, got, "")
	require.NoError(t, err)

	err = c.DeleteEvent(ctx, created.ID, newEtag)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	require.NoError(t, c.DeleteEvent(ctx, created.ID, ""))

	_, _, err = c.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateEvent_Invalid(t *testing.T) {
	c := newTestClient(t)

	_, _, err := c.CreateEvent(context.Background(), calendar.Event{
		Title: "거꾸로", Date: "2024-10-05", StartTime: "16:00", EndTime: "15:00",
		Category: calendar.CategoryWork,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUpdateEvent_NoID(t *testing.T) {
	c := newTestClient(t)
	_, _, err := c.UpdateEvent(context.Background(), calendar.Event{Title: "x"}, "")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestAddException(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	updated, err := c.AddException(ctx, "1", "2024-10-08")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-10-08"}, updated.ExceptionList)

	week, err := c.ReadEvents().Week(calendar.MustParseDate("2024-10-08")).Do(ctx)
	require.NoError(t, err)
	assert.NotContains(t, titles(week), "팀 회의")

	_, err = c.AddException(ctx, "missing", "2024-10-08")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindOverlaps(t *testing.T) {
	c := newTestClient(t)

	overlaps, err := c.FindOverlaps(context.Background(), calendar.Event{
		Title: "점심 회의", Date: "2024-10-01", StartTime: "12:30", EndTime: "13:30",
		Category: calendar.CategoryWork,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"점심 약속"}, titles(overlaps))
}

func TestExportEvents(t *testing.T) {
	c := newTestClient(t)

	events, err := c.ExportEvents(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, seedEvents(), events)
}

func TestBasicAuth(t *testing.T) {
	users := memory.New()
	require.NoError(t, users.AddUser(memory.User{Username: "alice", Password: "secret"}))

	store := storemem.New()
	srv, err := server.New(store,
		server.WithLogger(discardLogger()),
		server.WithAuthenticator(users, ""))
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	anonymous, err := New(ts.URL, nil)
	require.NoError(t, err)
	_, err = anonymous.ReadEvents().Do(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	cfg := DefaultConfig()
	cfg.Username, cfg.Password = "alice", "secret"
	authed, err := New(ts.URL, cfg)
	require.NoError(t, err)
	events, err := authed.ReadEvents().Do(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)

	cfg.Password = "wrong"
	wrong, err := New(ts.URL, cfg)
	require.NoError(t, err)
	_, err = wrong.ReadEvents().Do(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))
}
