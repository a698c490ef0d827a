package client

import (
	"context"
	"fmt"

	"github.com/cyp0633/calview/calendar"
)

// CreateEvent stores a new event. The server assigns the ID.
func (c *eventClient) CreateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, string, error) {
	var created calendar.Event
	etag, err := c.httpClient.DoPOST(ctx, "api/events", ev, &created)
	if err != nil {
		return calendar.Event{}, "", fmt.Errorf("failed to create event: %w", err)
	}
	return created, etag, nil
}

// UpdateEvent replaces an event with optimistic locking. An empty etag
// fetches the current one first.
func (c *eventClient) UpdateEvent(ctx context.Context, ev calendar.Event, etag string) (calendar.Event, string, error) {
	if ev.ID == "" {
		return calendar.Event{}, "", fmt.Errorf("event has no id: %w", ErrInvalid)
	}
	if etag == "" {
		_, current, err := c.GetEvent(ctx, ev.ID)
		if err != nil {
			return calendar.Event{}, "", err
		}
		etag = current
	}

	var updated calendar.Event
	newEtag, err := c.httpClient.DoPUT(ctx, eventURL(ev.ID), etag, ev, &updated)
	if err != nil {
		return calendar.Event{}, "", fmt.Errorf("failed to update event %s: %w", ev.ID, err)
	}
	return updated, newEtag, nil
}

// DeleteEvent deletes an event. A non-empty etag must match the current
// revision.
func (c *eventClient) DeleteEvent(ctx context.Context, id string, etag string) error {
	if err := c.httpClient.DoDELETE(ctx, eventURL(id), etag); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}

// AddException cancels the occurrence of a series on date (YYYY-MM-DD).
func (c *eventClient) AddException(ctx context.Context, id string, date string) (calendar.Event, error) {
	var updated calendar.Event
	body := struct {
		Date string `json:"date"`
	}{Date: date}
	if _, err := c.httpClient.DoPOST(ctx, eventURL(id)+"/exceptions", body, &updated); err != nil {
		return calendar.Event{}, fmt.Errorf("failed to add exception to event %s: %w", id, err)
	}
	return updated, nil
}

// FindOverlaps lists the stored events that clash with draft
func (c *eventClient) FindOverlaps(ctx context.Context, draft calendar.Event) ([]calendar.Event, error) {
	var resp struct {
		Overlaps []calendar.Event `json:"overlaps"`
	}
	if _, err := c.httpClient.DoPOST(ctx, "api/overlaps", draft, &resp); err != nil {
		return nil, fmt.Errorf("failed to check overlaps: %w", err)
	}
	return resp.Overlaps, nil
}
