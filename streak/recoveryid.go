// Deterministic recovery-record identifiers.
//
// The persistence layer treats a full backfill as recompute-and-overwrite
// rather than append-only, which only works because identical
// (missedDate, recoveryDate) pairs always hash to identical ids across runs
// and processes.

package streak

import (
	"fmt"
	"hash/fnv"
)

// RecoveryID returns the stable id for a recovery record: a 32-bit FNV-1a
// hash of "{missedDateKey}:{recoveryDateKey}" rendered as 8 lowercase hex
// characters.
func RecoveryID(missed, recovery DayKey) string {
	h := fnv.New32a()
	h.Write([]byte(string(missed) + ":" + string(recovery)))
	return fmt.Sprintf("%08x", h.Sum32())
}

// AssignRecoveryIDs fills in the RecoveryID of every event in place and
// checks the batch for hash collisions. A collision should not occur at
// 32-bit scale for realistic batch sizes, but a silent one would corrupt the
// persisted history, so any collision is fatal.
func AssignRecoveryIDs(events []RecoveryEvent) error {
	seen := make(map[string]DayKey, len(events))
	for i := range events {
		id := RecoveryID(events[i].MissedDate, events[i].RecoveryDate)
		if prev, ok := seen[id]; ok && prev != events[i].MissedDate {
			return fmt.Errorf("recovery id collision: %s maps to both %s and %s", id, prev, events[i].MissedDate)
		}
		seen[id] = events[i].MissedDate
		events[i].RecoveryID = id
	}
	return nil
}
