package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/recurrence"
	"github.com/cyp0633/calview/server/auth/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, cfg *Config) *httptest.Server {
	t.Helper()
	a, err := buildApp(cfg, discardLogger(), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	ts := httptest.NewServer(a.handler)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url, user, password string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if user != "" {
		req.SetBasicAuth(user, password)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestBuildApp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedFile = "seed.example.yaml"
	cfg.Users = []memory.User{{Username: "alice", Password: "password"}}
	ts := newTestApp(t, cfg)

	code, _ := get(t, ts.URL+"/api/events", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := get(t, ts.URL+"/api/events", "alice", "password")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "weekly-standup")

	code, body = get(t, ts.URL+"/calendar.ics", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "UID:anniversary")

	code, body = get(t, ts.URL+"/metrics", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `calview_http_requests_total{code="200",route="GET /api/events"} 1`)
	assert.Contains(t, body, "calview_recurrence_cache_entries")
}

func TestBuildApp_NoMetrics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics = false
	ts := newTestApp(t, cfg)

	code, _ := get(t, ts.URL+"/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBuildApp_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedFile = "missing.yaml"
	_, err := buildApp(cfg, discardLogger(), prometheus.NewRegistry())
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Engine.Preset = "turbo"
	_, err = buildApp(cfg, discardLogger(), prometheus.NewRegistry())
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Users = []memory.User{{Username: "a"}, {Username: "a"}}
	_, err = buildApp(cfg, discardLogger(), prometheus.NewRegistry())
	assert.Error(t, err)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAgendaCmd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedFile = "seed.example.yaml"
	ts := newTestApp(t, cfg)

	out, err := runCLI(t, "agenda", "--server", ts.URL, "--date", "2024-10-08")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-08\n  09:00-10:00 팀 회의 @ 회의실 A\n", out)

	out, err = runCLI(t, "agenda", "--server", ts.URL, "--date", "2025-10-20", "--week")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-10-20\n  18:00-21:00 결혼기념일\n")
	assert.Contains(t, out, "2025-10-21\n  09:00-10:00 팀 회의 @ 회의실 A\n")
	assert.Contains(t, out, "2025-10-25\n  일정 없음\n")

	out, err = runCLI(t, "agenda", "--server", ts.URL, "--date", "2024-10-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-03 (개천절)\n  일정 없음\n", out)
}

func TestAgendaCmd_Errors(t *testing.T) {
	_, err := runCLI(t, "agenda", "--date", "2024-13-01")
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)

	_, err = runCLI(t, "agenda", "--server", "not a url")
	assert.Error(t, err)
}

func TestPrintAgenda_SortsByStart(t *testing.T) {
	day := calendar.MustParseDate("2024-10-01")
	events := []calendar.Event{
		{ID: "b", Title: "늦은 일정", Date: "2024-10-01", StartTime: "15:00", EndTime: "16:00"},
		{ID: "a", Title: "이른 일정", Date: "2024-10-01", StartTime: "08:00", EndTime: "09:00"},
	}

	var out bytes.Buffer
	printAgenda(&out, recurrence.NewEngine(), events, []calendar.Date{day})
	assert.Equal(t, "2024-10-01\n  08:00-09:00 이른 일정\n  15:00-16:00 늦은 일정\n", out.String())
}
