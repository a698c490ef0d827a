// Package notify picks the events whose reminder is due.
package notify

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/cyp0633/calview/calendar"
)

// IDSet is a set of event IDs.
type IDSet map[string]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Notification is a reminder shown for one event.
type Notification struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// floating re-reads the wall clock of t as a UTC instant so that it can be
// compared with event times, which carry no zone.
func floating(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)
}

// MinutesUntil returns the whole minutes from now to the start of ev,
// rounded down. ok is false when the start does not parse.
func MinutesUntil(ev calendar.Event, now time.Time) (int, bool) {
	start, ok := calendar.ParseInstant(ev.Date, ev.StartTime).Time()
	if !ok {
		return 0, false
	}
	diff := start.Sub(floating(now))
	return int(math.Floor(diff.Minutes())), true
}

// Upcoming returns the events whose start is exactly notificationTime minutes
// away from now, skipping those already notified or dismissed. Input order
// is kept.
func Upcoming(events []calendar.Event, now time.Time, notified, dismissed IDSet) []calendar.Event {
	out := []calendar.Event{}
	for _, ev := range events {
		minutes, ok := MinutesUntil(ev, now)
		if !ok || minutes <= 0 || minutes != ev.NotificationTime {
			continue
		}
		if notified.Has(ev.ID) || dismissed.Has(ev.ID) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Message renders the reminder text for ev.
func Message(ev calendar.Event) string {
	return strconv.Itoa(ev.NotificationTime) + "분 후 " + ev.Title + " 일정이 시작됩니다."
}

// Tracker remembers which events were already announced or dismissed. It is
// safe for concurrent use.
type Tracker struct {
	mu            sync.Mutex
	notified      IDSet
	dismissed     IDSet
	notifications []Notification
}

func NewTracker() *Tracker {
	return &Tracker{notified: IDSet{}, dismissed: IDSet{}}
}

// Check announces every event that became due at now and returns the new
// notifications. Each event is announced once.
func (t *Tracker) Check(events []calendar.Event, now time.Time) []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()

	due := Upcoming(events, now, t.notified, t.dismissed)
	fresh := make([]Notification, 0, len(due))
	for _, ev := range due {
		n := Notification{ID: ev.ID, Message: Message(ev)}
		t.notified[ev.ID] = struct{}{}
		t.notifications = append(t.notifications, n)
		fresh = append(fresh, n)
	}
	return fresh
}

// Pending returns the announced notifications that were not dismissed.
func (t *Tracker) Pending() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Notification, len(t.notifications))
	copy(out, t.notifications)
	return out
}

// Dismiss removes the notification of event id and keeps it from coming back.
// It reports whether a pending notification was removed.
func (t *Tracker) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dismissed[id] = struct{}{}
	for i, n := range t.notifications {
		if n.ID == id {
			t.notifications = append(t.notifications[:i], t.notifications[i+1:]...)
			return true
		}
	}
	return false
}

// Reset forgets all state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notified = IDSet{}
	t.dismissed = IDSet{}
	t.notifications = nil
}
