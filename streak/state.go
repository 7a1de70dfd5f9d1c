// Simulation state snapshots and the streak status sum type.
//
// Status is modeled as a sealed interface with exactly three variants so that
// illegal states (an Eligible window without its payload, say) are
// unrepresentable. Each simulated day produces a new snapshot; snapshots are
// never mutated in place.

package streak

import (
	"fmt"
	"time"
)

// StatusKind names a streak status variant.
type StatusKind string

const (
	StatusOnStreak StatusKind = "onStreak"
	StatusEligible StatusKind = "eligible"
	StatusMissed   StatusKind = "missed"
)

// StreakStatus is the tagged status of a simulation state snapshot.
// The only implementations are OnStreak, Eligible and Missed.
type StreakStatus interface {
	Kind() StatusKind
}

// OnStreak means the user has no outstanding miss.
type OnStreak struct{}

// Kind returns StatusOnStreak.
func (OnStreak) Kind() StatusKind { return StatusOnStreak }

// Eligible means a working day was missed and its recovery window is still
// open. Progress toward the window is tracked in CurrentPosts.
type Eligible struct {
	PostsRequired int       // posts needed to close the window
	CurrentPosts  int       // contributing posts accumulated so far
	Deadline      time.Time // end of the eligible date, 23:59:59.999 KST
	MissedDate    DayKey    // the working day that was missed
}

// Kind returns StatusEligible.
func (Eligible) Kind() StatusKind { return StatusEligible }

// Missed means a recovery window lapsed without enough posts.
type Missed struct{}

// Kind returns StatusMissed.
func (Missed) Kind() StatusKind { return StatusMissed }

// SimulationState is one immutable snapshot of the streak state machine.
type SimulationState struct {
	Status               StreakStatus
	CurrentStreak        int    // consecutive working days posted, ≥ 0
	LongestStreak        int    // monotonically non-decreasing across the fold
	OriginalStreak       int    // streak length frozen at the most recent miss
	LastContributionDate DayKey // most recent day with ≥ 1 post ("" if none)
}

// ZeroState is the canonical initial state for a user with no history.
func ZeroState() SimulationState {
	return SimulationState{Status: OnStreak{}}
}

// Validate checks the structural invariants of a snapshot. A violation is a
// programming error in the caller, surfaced loudly rather than repaired.
func (s SimulationState) Validate() error {
	if s.Status == nil {
		return fmt.Errorf("simulation state has no status")
	}
	if s.CurrentStreak < 0 || s.LongestStreak < 0 || s.OriginalStreak < 0 {
		return fmt.Errorf("simulation state has negative streak counters: current=%d longest=%d original=%d",
			s.CurrentStreak, s.LongestStreak, s.OriginalStreak)
	}
	if s.CurrentStreak > s.LongestStreak {
		return fmt.Errorf("currentStreak %d exceeds longestStreak %d", s.CurrentStreak, s.LongestStreak)
	}
	if e, ok := s.Status.(Eligible); ok {
		if e.PostsRequired <= 0 {
			return fmt.Errorf("eligible window for %s has postsRequired=%d", e.MissedDate, e.PostsRequired)
		}
		if e.MissedDate == "" {
			return fmt.Errorf("eligible window has no missed date")
		}
		if e.Deadline.IsZero() {
			return fmt.Errorf("eligible window for %s has no deadline", e.MissedDate)
		}
	}
	if s.LastContributionDate != "" {
		if _, err := ParseDayKey(s.LastContributionDate); err != nil {
			return fmt.Errorf("invalid lastContributionDate: %w", err)
		}
	}
	return nil
}

// String returns a human-readable representation of a SimulationState.
func (s SimulationState) String() string {
	kind := StatusKind("nil")
	if s.Status != nil {
		kind = s.Status.Kind()
	}
	return fmt.Sprintf("SimulationState: (Status: %s, Current: %d, Longest: %d, Original: %d, LastPost: %s)",
		kind, s.CurrentStreak, s.LongestStreak, s.OriginalStreak, s.LastContributionDate)
}

// RecoveryEvent records one satisfied recovery window. Only successful
// recoveries are emitted; a lapsed window leaves no event behind.
type RecoveryEvent struct {
	MissedDate    DayKey // the working day that was missed
	RecoveryDate  DayKey // the day the window was satisfied
	PostsRequired int    // posts the window demanded
	PostsWritten  int    // contributing posts actually tallied that day
	RecoveryID    string // deterministic 8-hex FNV-1a id, see recoveryid.go
	Successful    bool
}
