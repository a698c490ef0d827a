package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/calview/server/auth/memory"
	storagememory "github.com/cyp0633/calview/server/storage/memory"
)

func TestServer_BasicAuth(t *testing.T) {
	users := memory.New(memory.WithLogger(testLogger()))
	require.NoError(t, users.AddUser(memory.User{Username: "alice", Password: "secret"}))
	require.NoError(t, users.AddUser(memory.User{Username: "bob", Password: "viewer", ReadOnly: true}))

	store := storagememory.New()
	require.NoError(t, store.Seed(fixtureEvents()...))
	srv, err := New(store,
		WithLogger(testLogger()),
		WithClock(func() time.Time { return testNow }),
		WithAuthenticator(users, "calview", "/calendar.ics"))
	require.NoError(t, err)

	basic := func(user, pass string) map[string]string {
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.SetBasicAuth(user, pass)
		return map[string]string{"Authorization": req.Header.Get("Authorization")}
	}

	w := doRequest(srv, http.MethodGet, "/api/events", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Basic realm="calview"`, w.Header().Get("WWW-Authenticate"))

	w = doRequest(srv, http.MethodGet, "/calendar.ics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(srv, http.MethodGet, "/api/events", nil, basic("bob", "viewer"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(srv, http.MethodDelete, "/api/events/1", nil, basic("bob", "viewer"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(srv, http.MethodDelete, "/api/events/1", nil, basic("alice", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(srv, http.MethodDelete, "/api/events/1", nil, basic("alice", "secret"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
