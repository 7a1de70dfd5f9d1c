// Package runner fans the backfill engine out over many users. Each user's
// simulation is fully independent, so a bounded worker pool is safe; the
// engine itself stays single-threaded per user.
package runner

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BumgeunSong/daily-writing-friends-sub002/streak"
	"github.com/BumgeunSong/daily-writing-friends-sub002/streak/source"
	"github.com/BumgeunSong/daily-writing-friends-sub002/streak/store"
)

// Runner executes backfill runs against an event source and a store.
type Runner struct {
	Source  source.EventSource
	Store   store.Store
	Workers int           // pool size for RunAll; values < 1 mean 1
	Horizon streak.DayKey // optional horizon end, "" = last event's day
	Resume  bool          // start from the persisted snapshot instead of the zero state
}

// UserOutcome reports one user's run inside a batch.
type UserOutcome struct {
	UserID string
	RunID  string
	Result *streak.Result
	Err    error
}

// RunUser backfills a single user end to end: load history, pick the initial
// state, replay, persist. Every run is tagged with a fresh run id for
// auditing; the simulation output itself stays deterministic.
func (r *Runner) RunUser(userID string) UserOutcome {
	runID := uuid.NewString()
	out := UserOutcome{UserID: userID, RunID: runID}

	events, err := r.Source.Events(userID)
	if err != nil {
		out.Err = fmt.Errorf("load events for %s: %w", userID, err)
		return out
	}

	initial := streak.ZeroState()
	if r.Resume {
		persisted, found, err := r.Store.LoadState(userID)
		if err != nil {
			out.Err = fmt.Errorf("load state for %s: %w", userID, err)
			return out
		}
		if found {
			initial = persisted
		}
	}

	result, err := streak.BackfillStreak(events, initial, r.Horizon)
	if err != nil {
		out.Err = fmt.Errorf("backfill %s: %w", userID, err)
		return out
	}
	if err := r.Store.SaveBackfill(userID, runID, result); err != nil {
		out.Err = fmt.Errorf("persist backfill for %s: %w", userID, err)
		return out
	}

	logrus.Infof("[run %s] user %s: %d days, %d posts, %d recoveries",
		runID, userID, result.Stats.DaysSimulated, result.Stats.PostsProcessed, result.Stats.Recoveries)
	out.Result = result
	return out
}

// RunAll backfills every user known to the source through the worker pool.
// One user's failure does not stop the batch; outcomes are returned in user
// order.
func (r *Runner) RunAll() ([]UserOutcome, error) {
	users, err := r.Source.Users()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]UserOutcome, len(users))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = r.RunUser(users[idx])
			}
		}()
	}
	for idx := range users {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
			logrus.Errorf("backfill failed: %v", out.Err)
		}
	}
	logrus.Infof("backfill batch finished: %d users, %d failed", len(users), failed)
	return outcomes, nil
}
