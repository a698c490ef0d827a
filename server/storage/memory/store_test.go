package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/server/storage"
)

func draft(title, date string) calendar.Event {
	return storage.NewMockEvent("", title, date, "09:00", "10:00")
}

func TestStore_CRUD(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.GetEvent(ctx, "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	created, err := store.CreateEvent(ctx, draft("회의", "2024-10-15"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := store.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Title = "변경된 회의"
	updated, err := store.UpdateEvent(ctx, got, "")
	require.NoError(t, err)
	assert.Equal(t, "변경된 회의", updated.Title)

	_, err = store.UpdateEvent(ctx, draft("없음", "2024-10-15"), "")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	ghost := draft("없음", "2024-10-15")
	ghost.ID = "ghost"
	_, err = store.UpdateEvent(ctx, ghost, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.DeleteEvent(ctx, created.ID, ""))
	assert.ErrorIs(t, store.DeleteEvent(ctx, created.ID, ""), storage.ErrNotFound)

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_IfMatch(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateEvent(ctx, draft("회의", "2024-10-15"))
	require.NoError(t, err)
	v1 := storage.ETag(created)

	changed := created
	changed.Title = "변경"
	updated, err := store.UpdateEvent(ctx, changed, v1)
	require.NoError(t, err)

	// v1 is stale now.
	changed.Title = "다시 변경"
	_, err = store.UpdateEvent(ctx, changed, v1)
	assert.ErrorIs(t, err, storage.ErrPreconditionFailed)
	assert.ErrorIs(t, store.DeleteEvent(ctx, created.ID, v1), storage.ErrPreconditionFailed)

	got, err := store.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = store.UpdateEvent(ctx, changed, "*")
	require.NoError(t, err)

	_, err = store.UpdateEvent(ctx, changed, `"missing"`)
	assert.ErrorIs(t, err, storage.ErrPreconditionFailed)

	ghost := draft("없음", "2024-10-15")
	ghost.ID = "ghost"
	_, err = store.UpdateEvent(ctx, ghost, v1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_IfMatch_OneWriterWins(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateEvent(ctx, draft("회의", "2024-10-15"))
	require.NoError(t, err)
	etag := storage.ETag(created)

	const writers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		refused int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ev := created
			ev.Title = fmt.Sprintf("작성자 %d", i)
			_, err := store.UpdateEvent(ctx, ev, etag)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, storage.ErrPreconditionFailed):
				refused++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, writers-1, refused)
}

func TestStore_AssignsFreshIDs(t *testing.T) {
	store := New()
	ctx := context.Background()

	in := draft("a", "2024-10-15")
	in.ID = "client-chosen"
	a, err := store.CreateEvent(ctx, in)
	require.NoError(t, err)
	b, err := store.CreateEvent(ctx, in)
	require.NoError(t, err)

	assert.NotEqual(t, "client-chosen", a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestStore_ListKeepsCreationOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	var ids []string
	for i := 1; i <= 5; i++ {
		ev, err := store.CreateEvent(ctx, draft(fmt.Sprintf("일정 %d", i), "2024-10-15"))
		require.NoError(t, err)
		ids = append(ids, ev.ID)
	}
	require.NoError(t, store.DeleteEvent(ctx, ids[2], ""))

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	var got []string
	for _, ev := range events {
		got = append(got, ev.ID)
	}
	assert.Equal(t, []string{ids[0], ids[1], ids[3], ids[4]}, got)
}

func TestStore_ReturnsCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	ev := draft("반복", "2024-10-01")
	ev.ExceptionList = []string{"2024-10-02"}
	created, err := store.CreateEvent(ctx, ev)
	require.NoError(t, err)

	ev.ExceptionList[0] = "mutated"
	created.ExceptionList[0] = "mutated"

	got, err := store.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-10-02"}, got.ExceptionList)
}

func TestStore_AddException(t *testing.T) {
	store := New()
	ctx := context.Background()

	ev := draft("매일", "2024-10-01")
	ev.Repeat = calendar.RecurrenceRule{Type: calendar.RepeatDaily, Interval: 1}
	created, err := store.CreateEvent(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, []string{}, created.ExceptionList)

	updated, err := store.AddException(ctx, created.ID, "2024-10-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-10-03"}, updated.ExceptionList)

	updated, err = store.AddException(ctx, created.ID, "2024-10-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-10-03"}, updated.ExceptionList, "no duplicates")

	_, err = store.AddException(ctx, created.ID, "2024-10-3")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
	assert.ErrorIs(t, err, calendar.ErrMalformed)

	_, err = store.AddException(ctx, "ghost", "2024-10-03")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_Seed(t *testing.T) {
	store := New()
	require.NoError(t, store.Seed(
		storage.NewMockEvent("1", "a", "2024-10-01", "09:00", "10:00"),
		draft("b", "2024-10-02"),
	))
	assert.ErrorIs(t, store.Seed(storage.NewMockEvent("1", "dup", "2024-10-01", "09:00", "10:00")), storage.ErrConflict)

	events, err := store.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "1", events[0].ID)
	assert.NotEmpty(t, events[1].ID)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev, err := store.CreateEvent(ctx, draft("동시", "2024-10-01"))
			if !assert.NoError(t, err) {
				return
			}
			_, err = store.AddException(ctx, ev.ID, "2024-10-02")
			assert.NoError(t, err)
			_, err = store.ListEvents(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 16)
}

func TestETag(t *testing.T) {
	a := storage.NewMockEvent("1", "a", "2024-10-01", "09:00", "10:00")
	b := a.WithException("2024-10-02")
	assert.Equal(t, storage.ETag(a), storage.ETag(a.Clone()))
	assert.NotEqual(t, storage.ETag(a), storage.ETag(b))
}
