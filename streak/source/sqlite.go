package source

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/BumgeunSong/daily-writing-friends-sub002/streak"
)

// queryPageSize bounds one SELECT page. Posting histories are read in pages
// to stay under storage API limits on very long histories.
const queryPageSize = 500

// SQLiteSource reads posting histories from the postings table of a SQLite
// database. Timestamps are stored as Unix milliseconds (UTC) and resolved to
// KST here, before the engine ever sees them.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the posting database read-only for backfill queries.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	logrus.Infof("sqlite event source opened: %s", dbPath)
	return &SQLiteSource{db: db}, nil
}

// Events returns the user's full posting history ascending by timestamp,
// fetched page by page.
func (s *SQLiteSource) Events(userID string) ([]streak.PostingEvent, error) {
	var events []streak.PostingEvent
	for offset := 0; ; offset += queryPageSize {
		page, err := s.queryPage(userID, offset)
		if err != nil {
			return nil, err
		}
		events = append(events, page...)
		if len(page) < queryPageSize {
			break
		}
	}
	sortAscending(events)
	return events, nil
}

func (s *SQLiteSource) queryPage(userID string, offset int) ([]streak.PostingEvent, error) {
	rows, err := s.db.Query(`SELECT id, board_id, title, content_length, created_at_ms
		FROM postings WHERE user_id = ?
		ORDER BY created_at_ms ASC, id ASC
		LIMIT ? OFFSET ?`, userID, queryPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("query postings for %s: %w", userID, err)
	}
	defer rows.Close()

	var page []streak.PostingEvent
	for rows.Next() {
		var (
			id, boardID, title string
			contentLength      int
			createdAtMs        int64
		)
		if err := rows.Scan(&id, &boardID, &title, &contentLength, &createdAtMs); err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		ts := time.UnixMilli(createdAtMs).UTC()
		page = append(page, streak.NewPostingEvent(id, boardID, title, contentLength, ts))
	}
	return page, rows.Err()
}

// Users lists every user id with at least one posting, sorted ascending.
func (s *SQLiteSource) Users() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT user_id FROM postings ORDER BY user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var user string
		if err := rows.Scan(&user); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
