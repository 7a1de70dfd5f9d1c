package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/BumgeunSong/daily-writing-friends-sub002/streak"
)

// SQLiteStore persists backfill results to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the backfill writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logrus.Infof("sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS streak_states (
			user_id           TEXT PRIMARY KEY,
			status            TEXT NOT NULL,
			posts_required    INTEGER NOT NULL DEFAULT 0,
			current_posts     INTEGER NOT NULL DEFAULT 0,
			deadline_ms       INTEGER NOT NULL DEFAULT 0,
			missed_date       TEXT NOT NULL DEFAULT '',
			current_streak    INTEGER NOT NULL,
			longest_streak    INTEGER NOT NULL,
			original_streak   INTEGER NOT NULL,
			last_contribution TEXT NOT NULL DEFAULT '',
			run_id            TEXT NOT NULL,
			updated_at        INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recovery_events (
			recovery_id    TEXT NOT NULL,
			user_id        TEXT NOT NULL,
			missed_date    TEXT NOT NULL,
			recovery_date  TEXT NOT NULL,
			posts_required INTEGER NOT NULL,
			posts_written  INTEGER NOT NULL,
			successful     INTEGER NOT NULL,
			run_id         TEXT NOT NULL,
			PRIMARY KEY (user_id, recovery_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recovery_user ON recovery_events(user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveBackfill upserts the user's final state and replaces their recovery
// events in a single transaction. The deterministic recovery ids make the
// whole operation idempotent: re-running an identical backfill rewrites the
// same rows.
func (s *SQLiteStore) SaveBackfill(userID, runID string, result *streak.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	state := result.FinalState
	var (
		postsRequired, currentPosts int
		deadlineMs                  int64
		missedDate                  streak.DayKey
	)
	if e, ok := state.Status.(streak.Eligible); ok {
		postsRequired = e.PostsRequired
		currentPosts = e.CurrentPosts
		deadlineMs = e.Deadline.UnixMilli()
		missedDate = e.MissedDate
	}

	if _, err := tx.Exec(`INSERT INTO streak_states
		(user_id, status, posts_required, current_posts, deadline_ms, missed_date,
		 current_streak, longest_streak, original_streak, last_contribution, run_id, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET
			status = excluded.status,
			posts_required = excluded.posts_required,
			current_posts = excluded.current_posts,
			deadline_ms = excluded.deadline_ms,
			missed_date = excluded.missed_date,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			original_streak = excluded.original_streak,
			last_contribution = excluded.last_contribution,
			run_id = excluded.run_id,
			updated_at = excluded.updated_at`,
		userID, string(state.Status.Kind()), postsRequired, currentPosts, deadlineMs, string(missedDate),
		state.CurrentStreak, state.LongestStreak, state.OriginalStreak,
		string(state.LastContributionDate), runID, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("upsert streak state for %s: %w", userID, err)
	}

	// Delete-then-replace: the new event set is authoritative for the range.
	if _, err := tx.Exec(`DELETE FROM recovery_events WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear recovery events for %s: %w", userID, err)
	}
	for _, ev := range result.RecoveryEvents {
		if _, err := tx.Exec(`INSERT INTO recovery_events
			(recovery_id, user_id, missed_date, recovery_date, posts_required, posts_written, successful, run_id)
			VALUES (?,?,?,?,?,?,?,?)`,
			ev.RecoveryID, userID, string(ev.MissedDate), string(ev.RecoveryDate),
			ev.PostsRequired, ev.PostsWritten, boolToInt(ev.Successful), runID,
		); err != nil {
			return fmt.Errorf("insert recovery event %s for %s: %w", ev.RecoveryID, userID, err)
		}
	}

	return tx.Commit()
}

// LoadState returns the last persisted snapshot for the user, rebuilding the
// status sum type from its flattened columns.
func (s *SQLiteStore) LoadState(userID string) (streak.SimulationState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`SELECT status, posts_required, current_posts, deadline_ms, missed_date,
		current_streak, longest_streak, original_streak, last_contribution
		FROM streak_states WHERE user_id = ?`, userID)

	var (
		status                      string
		postsRequired, currentPosts int
		deadlineMs                  int64
		missedDate                  string
		state                       streak.SimulationState
		lastContribution            string
	)
	err := row.Scan(&status, &postsRequired, &currentPosts, &deadlineMs, &missedDate,
		&state.CurrentStreak, &state.LongestStreak, &state.OriginalStreak, &lastContribution)
	if err == sql.ErrNoRows {
		return streak.ZeroState(), false, nil
	}
	if err != nil {
		return streak.SimulationState{}, false, fmt.Errorf("load state for %s: %w", userID, err)
	}

	state.LastContributionDate = streak.DayKey(lastContribution)
	switch streak.StatusKind(status) {
	case streak.StatusOnStreak:
		state.Status = streak.OnStreak{}
	case streak.StatusEligible:
		state.Status = streak.Eligible{
			PostsRequired: postsRequired,
			CurrentPosts:  currentPosts,
			Deadline:      time.UnixMilli(deadlineMs).In(streak.KST),
			MissedDate:    streak.DayKey(missedDate),
		}
	case streak.StatusMissed:
		state.Status = streak.Missed{}
	default:
		return streak.SimulationState{}, false, fmt.Errorf("unknown persisted status %q for %s", status, userID)
	}
	return state, true, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	logrus.Info("closing sqlite store")
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
