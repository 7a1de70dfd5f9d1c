// Calendar rules for the writing streak: every calendar computation in the
// engine is anchored to Korea Standard Time. KST has no daylight saving, so a
// fixed UTC+9 zone keeps day arithmetic deterministic across host timezones.

package streak

import (
	"fmt"
	"time"
)

// KST is the fixed reference timezone for all calendar-day computations.
var KST = time.FixedZone("KST", 9*60*60)

// dayKeyLayout is the canonical calendar-day key format.
const dayKeyLayout = "2006-01-02"

// DayKey identifies one KST calendar day as a "YYYY-MM-DD" string.
type DayKey string

// ParseDayKey validates a calendar-day key and returns its KST midnight.
// Malformed keys are rejected with an error, never coerced.
func ParseDayKey(key DayKey) (time.Time, error) {
	if len(key) != len(dayKeyLayout) {
		return time.Time{}, fmt.Errorf("malformed day key %q: want YYYY-MM-DD", key)
	}
	t, err := time.ParseInLocation(dayKeyLayout, string(key), KST)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed day key %q: %w", key, err)
	}
	return t, nil
}

// DayKeyOf returns the KST calendar-day key of an absolute instant.
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.In(KST).Format(dayKeyLayout))
}

// mustMidnight parses a key that has already been validated upstream.
// A parse failure here is a programming error.
func mustMidnight(key DayKey) time.Time {
	t, err := ParseDayKey(key)
	if err != nil {
		panic(fmt.Sprintf("unvalidated day key reached calendar core: %v", err))
	}
	return t
}

// NextDay returns the calendar day immediately after key.
func NextDay(key DayKey) DayKey {
	return DayKeyOf(mustMidnight(key).AddDate(0, 0, 1))
}

// IsWorkingDay reports whether key falls on Monday through Friday in KST.
func IsWorkingDay(key DayKey) bool {
	wd := mustMidnight(key).Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// DayBoundaries returns the inclusive [00:00:00.000, 23:59:59.999] KST span
// of one calendar day. Consecutive days' boundaries are contiguous and never
// overlap.
func DayBoundaries(key DayKey) (start, end time.Time, err error) {
	start, err = ParseDayKey(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end = start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end, nil
}

// nextWorkingDay returns the first working day strictly after key.
func nextWorkingDay(key DayKey) DayKey {
	next := NextDay(key)
	for !IsWorkingDay(next) {
		next = NextDay(next)
	}
	return next
}

// RecoveryWindow describes the grace period opened by a missed working day.
// It is derived purely from the missed day's weekday and is never persisted.
type RecoveryWindow struct {
	EligibleDate         DayKey // the one day on which recovery posts count
	PostsRequired        int    // posts needed to restore the streak
	IsWorkingDayRecovery bool   // false for the Saturday-after-Friday window
}

// RecoveryWindowFor computes the recovery policy for a missed working day.
//
// A Friday miss can be recovered the next day (Saturday) with a single post.
// A Monday-Thursday miss must be recovered on the next working day with two
// posts. The window crosses month and year boundaries transparently.
func RecoveryWindowFor(missed DayKey) (RecoveryWindow, error) {
	midnight, err := ParseDayKey(missed)
	if err != nil {
		return RecoveryWindow{}, err
	}
	switch wd := midnight.Weekday(); wd {
	case time.Friday:
		return RecoveryWindow{
			EligibleDate:         NextDay(missed),
			PostsRequired:        1,
			IsWorkingDayRecovery: false,
		}, nil
	case time.Saturday, time.Sunday:
		return RecoveryWindow{}, fmt.Errorf("recovery window requested for non-working day %s (%s)", missed, wd)
	default:
		return RecoveryWindow{
			EligibleDate:         nextWorkingDay(missed),
			PostsRequired:        2,
			IsWorkingDayRecovery: true,
		}, nil
	}
}

// Contributes reports whether posts written on day count toward the tracked
// miss. Any working day contributes; a Saturday contributes only when the
// tracked miss is the immediately preceding Friday; Sunday never contributes.
func Contributes(day DayKey, missed DayKey) bool {
	midnight := mustMidnight(day)
	switch midnight.Weekday() {
	case time.Sunday:
		return false
	case time.Saturday:
		missedMidnight := mustMidnight(missed)
		return missedMidnight.Weekday() == time.Friday && NextDay(missed) == day
	default:
		return true
	}
}
