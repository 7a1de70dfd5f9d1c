// The per-day transition of the streak state machine.
//
// Step is a pure, total function: it never mutates its inputs and returns a
// fresh snapshot for every simulated day. The simulator folds it over the
// complete day-bucket timeline in strict ascending date order.

package streak

import (
	"fmt"
)

// Step advances the streak state machine by one calendar day and returns the
// next snapshot. When the day satisfies an open recovery window, the emitted
// RecoveryEvent is returned alongside; otherwise it is nil.
//
// Within the Eligible branch, the deadline check runs before the
// contribution check: once the eligible date has passed, later working days
// must lapse the window rather than feed it (a Thursday post cannot close a
// window whose eligible day was Wednesday).
func Step(state SimulationState, day DayBucket) (SimulationState, *RecoveryEvent, error) {
	if err := state.Validate(); err != nil {
		return SimulationState{}, nil, fmt.Errorf("invalid state before %s: %w", day.DayKey, err)
	}
	if _, err := ParseDayKey(day.DayKey); err != nil {
		return SimulationState{}, nil, err
	}

	posts := day.PostCount()
	next := state
	var recovered *RecoveryEvent

	switch st := state.Status.(type) {
	case OnStreak:
		switch {
		case day.WorkingDay && posts > 0:
			next.CurrentStreak = state.CurrentStreak + 1
		case day.WorkingDay:
			// Miss: freeze the streak and open a recovery window.
			var err error
			next, err = openWindow(state, day.DayKey, state.CurrentStreak)
			if err != nil {
				return SimulationState{}, nil, err
			}
		}
		// Non-working days leave the status untouched.

	case Eligible:
		switch {
		case day.WorkingDay && posts == 0:
			// A second miss permanently forecloses the outstanding window.
			// Accumulated progress becomes the new baseline, not a head
			// start on the new window.
			var err error
			next, err = openWindow(state, day.DayKey, st.CurrentPosts)
			if err != nil {
				return SimulationState{}, nil, err
			}
		case day.Midnight.After(st.Deadline):
			// The window lapsed. At most one day of partial credit carries
			// forward; no event is emitted for a failed window.
			next.Status = Missed{}
			next.CurrentStreak = min(st.CurrentPosts, 1)
			next.OriginalStreak = 0
		case posts > 0 && Contributes(day.DayKey, st.MissedDate):
			tally := st.CurrentPosts + posts
			if tally >= st.PostsRequired {
				win, err := RecoveryWindowFor(st.MissedDate)
				if err != nil {
					return SimulationState{}, nil, err
				}
				bonus := 1
				if win.IsWorkingDayRecovery {
					bonus = 2
				}
				next.Status = OnStreak{}
				next.CurrentStreak = state.OriginalStreak + bonus
				recovered = &RecoveryEvent{
					MissedDate:    st.MissedDate,
					RecoveryDate:  day.DayKey,
					PostsRequired: st.PostsRequired,
					PostsWritten:  tally,
					RecoveryID:    RecoveryID(st.MissedDate, day.DayKey),
					Successful:    true,
				}
			} else {
				// Partial progress stays visible as the current streak.
				next.Status = Eligible{
					PostsRequired: st.PostsRequired,
					CurrentPosts:  tally,
					Deadline:      st.Deadline,
					MissedDate:    st.MissedDate,
				}
				next.CurrentStreak = tally
			}
		}

	case Missed:
		switch {
		case day.WorkingDay && posts > 0:
			// A new streak begins.
			next.Status = OnStreak{}
			next.CurrentStreak = 1
			next.OriginalStreak = 1
		case day.WorkingDay:
			// No prior streak left to protect.
			var err error
			next, err = openWindow(state, day.DayKey, 0)
			if err != nil {
				return SimulationState{}, nil, err
			}
		}

	default:
		return SimulationState{}, nil, fmt.Errorf("unknown streak status %T on %s", state.Status, day.DayKey)
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	if posts > 0 {
		next.LastContributionDate = day.DayKey
	}
	return next, recovered, nil
}

// openWindow transitions into a fresh Eligible window for a missed working
// day. baseline is the streak value a later successful recovery restores.
func openWindow(state SimulationState, missed DayKey, baseline int) (SimulationState, error) {
	win, err := RecoveryWindowFor(missed)
	if err != nil {
		return SimulationState{}, err
	}
	_, deadline, err := DayBoundaries(win.EligibleDate)
	if err != nil {
		return SimulationState{}, err
	}
	next := state
	next.Status = Eligible{
		PostsRequired: win.PostsRequired,
		CurrentPosts:  0,
		Deadline:      deadline,
		MissedDate:    missed,
	}
	next.OriginalStreak = baseline
	next.CurrentStreak = 0
	return next, nil
}
