package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/recurrence"
	"github.com/cyp0633/calview/view"
)

// EventQuery narrows the events returned by ReadEvents
type EventQuery interface {
	// Search keeps events whose title, description or location contains term.
	Search(term string) EventQuery
	// Week keeps events occurring in the Sunday-first week of anchor.
	Week(anchor calendar.Date) EventQuery
	// Month keeps events occurring in the month of anchor.
	Month(anchor calendar.Date) EventQuery
	Do(ctx context.Context) ([]calendar.Event, error)
}

type eventQuery struct {
	client *eventClient
	term   string
	mode   view.Mode
	anchor calendar.Date
}

func (q *eventQuery) Search(term string) EventQuery {
	q.term = term
	return q
}

func (q *eventQuery) Week(anchor calendar.Date) EventQuery {
	q.mode, q.anchor = view.ModeWeek, anchor
	return q
}

func (q *eventQuery) Month(anchor calendar.Date) EventQuery {
	q.mode, q.anchor = view.ModeMonth, anchor
	return q
}

func (q *eventQuery) encode() string {
	values := url.Values{}
	if q.term != "" {
		values.Set("q", q.term)
	}
	if q.mode != "" {
		values.Set("view", string(q.mode))
		values.Set("date", q.anchor.String())
	}
	if len(values) == 0 {
		return "api/events"
	}
	return "api/events?" + values.Encode()
}

func (q *eventQuery) Do(ctx context.Context) ([]calendar.Event, error) {
	var resp struct {
		Events []calendar.Event `json:"events"`
	}
	if _, err := q.client.httpClient.DoGET(ctx, q.encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return resp.Events, nil
}

// ReadEvents returns a query over all events
func (c *eventClient) ReadEvents() EventQuery {
	return &eventQuery{client: c}
}

// GetEvent fetches one event and its current ETag
func (c *eventClient) GetEvent(ctx context.Context, id string) (calendar.Event, string, error) {
	var ev calendar.Event
	etag, err := c.httpClient.DoGET(ctx, eventURL(id), &ev)
	if err != nil {
		return calendar.Event{}, "", fmt.Errorf("failed to get event %s: %w", id, err)
	}
	return ev, etag, nil
}

// ExportEvents downloads the iCalendar export and decodes it
func (c *eventClient) ExportEvents(ctx context.Context) ([]calendar.Event, error) {
	data, err := c.httpClient.DoGETRaw(ctx, "calendar.ics")
	if err != nil {
		return nil, fmt.Errorf("failed to export events: %w", err)
	}
	return recurrence.DecodeCalendar(bytes.NewReader(data))
}

func eventURL(id string) string {
	return "api/events/" + url.PathEscape(id)
}
