// Package store persists backfill results. A backfill recomputes a user's
// whole history, so the store treats the produced recovery events as the
// complete authoritative set for the simulated range: replace, never append.
package store

import (
	"github.com/BumgeunSong/daily-writing-friends-sub002/streak"
)

// Store persists the outcome of one user's backfill run.
type Store interface {
	// SaveBackfill writes the final state and replaces the user's recovery
	// events in one transaction, keyed by their deterministic recovery ids.
	SaveBackfill(userID, runID string, result *streak.Result) error
	// LoadState returns the last persisted state snapshot for the user.
	// A user with no snapshot gets the zero state and found=false.
	LoadState(userID string) (state streak.SimulationState, found bool, err error)
	Close() error
}

// NoopStore discards everything. Used for dry runs, where the simulation
// output is reported but nothing is written.
type NoopStore struct{}

// SaveBackfill does nothing.
func (NoopStore) SaveBackfill(userID, runID string, result *streak.Result) error { return nil }

// LoadState always reports no persisted snapshot.
func (NoopStore) LoadState(userID string) (streak.SimulationState, bool, error) {
	return streak.ZeroState(), false, nil
}

// Close does nothing.
func (NoopStore) Close() error { return nil }
