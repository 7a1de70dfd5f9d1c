// Package source loads posting histories for the backfill engine. It owns
// the raw-timestamp -> KST resolution: every event it hands to the engine
// already carries its KST calendar-day key, and the engine trusts it.
package source

import (
	"sort"

	"github.com/BumgeunSong/daily-writing-friends-sub002/streak"
)

// EventSource yields one user's complete posting history, ascending by
// timestamp. Implementations own the query, pagination and timezone
// conversion; the returned events are a stable snapshot for the run.
type EventSource interface {
	// Events returns the user's full, time-ordered posting history.
	Events(userID string) ([]streak.PostingEvent, error)
	// Users lists the ids of all users with at least one posting.
	Users() ([]string, error)
}

// sortAscending orders events by authoritative timestamp, breaking ties by
// id so snapshots are stable across runs.
func sortAscending(events []streak.PostingEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].ID < events[j].ID
		}
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
