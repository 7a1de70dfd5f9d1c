// streak/simulator.go
package streak

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BumgeunSong/daily-writing-friends-sub002/streak/trace"
)

// Stats aggregates counters about one backfill run for final reporting.
type Stats struct {
	PostsProcessed   int   // total posting events consumed
	DaysSimulated    int   // calendar days folded through the state machine
	Recoveries       int   // completed Eligible -> OnStreak transitions
	ProcessingTimeMs int64 // wall-clock duration of the fold
}

// Result is the complete output of one backfill simulation.
type Result struct {
	FinalState     SimulationState
	RecoveryEvents []RecoveryEvent
	PerDayTrace    *trace.BackfillTrace
	Stats          Stats
}

// Simulator folds the streak state machine over a complete day-bucket
// timeline. It is a pure, single-threaded fold: safe to run concurrently
// across users, never within one user's timeline.
type Simulator struct {
	Timeline []DayBucket
	State    SimulationState

	Trace      *trace.BackfillTrace
	Recoveries []RecoveryEvent
}

// NewSimulator creates a Simulator over a complete, strictly ascending
// timeline starting from an initial state snapshot.
func NewSimulator(initial SimulationState, timeline []DayBucket) *Simulator {
	return &Simulator{
		Timeline:   timeline,
		State:      initial,
		Trace:      trace.NewBackfillTrace(),
		Recoveries: make([]RecoveryEvent, 0),
	}
}

// Run replays the timeline one calendar day at a time and assembles the
// final state, the authoritative recovery-event list, the per-day trace and
// the run counters. Running twice on identical input yields identical output
// (ProcessingTimeMs aside), including recovery ids.
func (s *Simulator) Run() (*Result, error) {
	started := time.Now()

	posts := 0
	var prev DayKey
	for _, day := range s.Timeline {
		if prev != "" {
			if day.DayKey <= prev {
				return nil, fmt.Errorf("timeline not strictly ascending: %s follows %s", day.DayKey, prev)
			}
			if expect := NextDay(prev); day.DayKey != expect {
				return nil, fmt.Errorf("timeline gap: %s follows %s, want %s", day.DayKey, prev, expect)
			}
		}
		prev = day.DayKey

		before := s.State
		next, recovered, err := Step(before, day)
		if err != nil {
			return nil, fmt.Errorf("day %s: %w", day.DayKey, err)
		}
		s.State = next
		posts += day.PostCount()

		record := trace.DayRecord{
			Date:          string(day.DayKey),
			WorkingDay:    day.WorkingDay,
			Posts:         day.PostCount(),
			StatusBefore:  string(before.Status.Kind()),
			StatusAfter:   string(next.Status.Kind()),
			CurrentStreak: next.CurrentStreak,
			LongestStreak: next.LongestStreak,
		}
		if recovered != nil {
			s.Recoveries = append(s.Recoveries, *recovered)
			record.RecoveryID = recovered.RecoveryID
			logrus.Infof("<< Recovery: missed %s recovered on %s (%d/%d posts)",
				recovered.MissedDate, recovered.RecoveryDate, recovered.PostsWritten, recovered.PostsRequired)
		}
		s.Trace.RecordDay(record)

		logrus.Debugf("[day %s] %s -> %s (streak %d, longest %d)",
			day.DayKey, before.Status.Kind(), next.Status.Kind(), next.CurrentStreak, next.LongestStreak)
	}

	if err := AssignRecoveryIDs(s.Recoveries); err != nil {
		return nil, err
	}

	result := &Result{
		FinalState:     s.State,
		RecoveryEvents: s.Recoveries,
		PerDayTrace:    s.Trace,
		Stats: Stats{
			PostsProcessed:   posts,
			DaysSimulated:    len(s.Timeline),
			Recoveries:       len(s.Recoveries),
			ProcessingTimeMs: time.Since(started).Milliseconds(),
		},
	}
	logrus.Infof("[day %s] Backfill ended: %s", prev, s.State)
	return result, nil
}

// BackfillStreak is the top-level entry point of the engine: it buckets an
// ascending posting history, synthesizes the complete day timeline up to
// horizonEnd (the last event's day when empty) and replays it from the
// caller's initial state.
//
// An empty history with no horizon is a valid non-error case: the result is
// the initial state unchanged, with an empty trace.
func BackfillStreak(events []PostingEvent, initial SimulationState, horizonEnd DayKey) (*Result, error) {
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	buckets, err := GroupIntoDayBuckets(events)
	if err != nil {
		return nil, err
	}
	timeline, err := SynthesizeCompleteTimeline(buckets, horizonEnd)
	if err != nil {
		return nil, err
	}
	return NewSimulator(initial, timeline).Run()
}

// Print displays aggregated run statistics, mirroring the per-day trace
// summary. Intended for CLI output at the end of a backfill.
func (st Stats) Print() {
	fmt.Println("=== Backfill Stats ===")
	fmt.Printf("Posts Processed   : %d\n", st.PostsProcessed)
	fmt.Printf("Days Simulated    : %d\n", st.DaysSimulated)
	fmt.Printf("Recoveries        : %d\n", st.Recoveries)
	fmt.Printf("Processing Time   : %d ms\n", st.ProcessingTimeMs)
}
