// Package trace provides per-day trace recording for streak backfill
// analysis. It holds pure data types and has no dependency on the engine
// package, so both can import it freely.
package trace

// DayRecord captures the outcome of one simulated calendar day.
type DayRecord struct {
	Date          string `json:"date"`
	WorkingDay    bool   `json:"working_day"`
	Posts         int    `json:"posts"`
	StatusBefore  string `json:"status_before"`
	StatusAfter   string `json:"status_after"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	RecoveryID    string `json:"recovery_id,omitempty"` // set when a window was satisfied this day
}

// BackfillTrace collects day records during one user's backfill simulation.
type BackfillTrace struct {
	Days []DayRecord
}

// NewBackfillTrace creates a BackfillTrace ready for recording.
func NewBackfillTrace() *BackfillTrace {
	return &BackfillTrace{Days: make([]DayRecord, 0)}
}

// RecordDay appends a per-day record.
func (bt *BackfillTrace) RecordDay(record DayRecord) {
	bt.Days = append(bt.Days, record)
}
