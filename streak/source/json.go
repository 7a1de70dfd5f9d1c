package source

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/BumgeunSong/daily-writing-friends-sub002/streak"
)

// postingRecord is the on-disk shape of one posting in a JSON fixture.
type postingRecord struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	BoardID       string `json:"board_id"`
	Title         string `json:"title"`
	ContentLength int    `json:"content_length"`
	Timestamp     string `json:"timestamp"` // RFC 3339
}

// JSONSource replays posting histories from a JSON fixture file. Useful for
// dry runs and for reproducing a user's backfill outside the database.
type JSONSource struct {
	byUser map[string][]streak.PostingEvent
}

// LoadJSONSource reads a fixture file holding a flat array of posting
// records and groups it per user.
func LoadJSONSource(path string) (*JSONSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}

	var records []postingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse events file %s: %w", path, err)
	}

	src := &JSONSource{byUser: make(map[string][]streak.PostingEvent)}
	for i, rec := range records {
		ts, err := time.Parse(time.RFC3339, rec.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): bad timestamp: %w", i, rec.ID, err)
		}
		ev := streak.NewPostingEvent(rec.ID, rec.BoardID, rec.Title, rec.ContentLength, ts)
		src.byUser[rec.UserID] = append(src.byUser[rec.UserID], ev)
	}
	for user := range src.byUser {
		sortAscending(src.byUser[user])
	}
	return src, nil
}

// Events returns the user's time-ordered posting history. Unknown users get
// an empty history, not an error.
func (s *JSONSource) Events(userID string) ([]streak.PostingEvent, error) {
	events := s.byUser[userID]
	out := make([]streak.PostingEvent, len(events))
	copy(out, events)
	return out, nil
}

// Users lists all user ids present in the fixture, sorted ascending.
func (s *JSONSource) Users() ([]string, error) {
	users := make([]string, 0, len(s.byUser))
	for user := range s.byUser {
		users = append(users, user)
	}
	sort.Strings(users)
	return users, nil
}
