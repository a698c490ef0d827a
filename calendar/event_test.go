package calendar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleEventJSON = `{
  "id": "1",
  "title": "팀 회의",
  "date": "2024-10-15",
  "startTime": "09:00",
  "endTime": "10:00",
  "description": "주간 팀 미팅",
  "location": "회의실 A",
  "category": "업무",
  "repeat": { "type": "weekly", "interval": 2, "endDate": "2024-12-31" },
  "notificationTime": 10,
  "exceptionList": ["2024-10-29"]
}`

func TestEventJSON(t *testing.T) {
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(sampleEventJSON), &ev))

	assert.Equal(t, "1", ev.ID)
	assert.Equal(t, CategoryWork, ev.Category)
	assert.Equal(t, RepeatWeekly, ev.Repeat.Type)
	assert.Equal(t, 2, ev.Repeat.Interval)
	assert.Equal(t, []string{"2024-10-29"}, ev.ExceptionList)

	out, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"weekly"`)
}

func TestEventYAML(t *testing.T) {
	src := `
id: "2"
title: standup
date: "2024-10-01"
startTime: "09:00"
endTime: "09:15"
repeat:
  type: daily
  interval: 1
`
	var ev Event
	require.NoError(t, yaml.Unmarshal([]byte(src), &ev))
	assert.Equal(t, RepeatDaily, ev.Repeat.Type)
	assert.Equal(t, "09:15", ev.EndTime)
}

func TestRepeatTypeRejectsUnknown(t *testing.T) {
	var ev Event
	err := json.Unmarshal([]byte(`{"repeat":{"type":"hourly","interval":1}}`), &ev)
	assert.ErrorIs(t, err, ErrMalformed)

	require.NoError(t, json.Unmarshal([]byte(`{"repeat":{"type":"","interval":0}}`), &ev))
	assert.Equal(t, RepeatNone, ev.Repeat.Type)
}

func TestRecurrenceRuleHelpers(t *testing.T) {
	r := RecurrenceRule{Type: RepeatMonthly, Interval: 0}
	assert.Equal(t, 1, r.Step())
	end, err := r.End()
	require.NoError(t, err)
	assert.True(t, end.IsAbsent())

	r.EndDate = "2025-02-01"
	end, err = r.End()
	require.NoError(t, err)
	d, ok := end.Get()
	require.True(t, ok)
	assert.Equal(t, "2025-02-01", d.String())

	r.EndDate = "garbage"
	_, err = r.End()
	assert.ErrorIs(t, err, ErrMalformed)

	r.EndDate = "2024-13-01"
	_, err = r.End()
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.False(t, RecurrenceRule{}.Repeats())
	assert.Equal(t, "RepeatType(9)", RepeatType(9).String())
}

func TestWithExceptionDoesNotMutate(t *testing.T) {
	ev := Event{ID: "1", ExceptionList: []string{"2024-10-01"}}
	next := ev.WithException("2024-10-08")

	assert.Equal(t, []string{"2024-10-01"}, ev.ExceptionList)
	assert.Equal(t, []string{"2024-10-01", "2024-10-08"}, next.ExceptionList)
	assert.True(t, next.IsException("2024-10-08"))

	again := next.WithException("2024-10-08")
	assert.Len(t, again.ExceptionList, 2)
}
