package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDayKey_Malformed_Rejected(t *testing.T) {
	// GIVEN calendar-day keys that are not canonical YYYY-MM-DD
	bad := []DayKey{"", "2025-7-05", "20250705", "not-a-date", "2025-13-40", "2025-07-05T00:00"}

	// WHEN each is parsed
	// THEN every one is rejected with an error, never coerced
	for _, key := range bad {
		if _, err := ParseDayKey(key); err == nil {
			t.Errorf("ParseDayKey(%q): expected error, got none", key)
		}
	}
}

func TestParseDayKey_Valid_ReturnsKSTMidnight(t *testing.T) {
	got, err := ParseDayKey("2025-07-21")
	assert.NoError(t, err)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.July, got.Month())
	assert.Equal(t, 21, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, "KST", got.Location().String())
}

func TestDayKeyOf_ResolvesAcrossMidnightUTC(t *testing.T) {
	// GIVEN a UTC instant late on a Friday
	ts := time.Date(2025, 7, 25, 15, 43, 0, 0, time.UTC)

	// WHEN resolved to a KST day key
	got := DayKeyOf(ts)

	// THEN it lands on Saturday in KST (00:43 the next day)
	assert.Equal(t, DayKey("2025-07-26"), got)
}

func TestIsWorkingDay_WeekdaysOnly(t *testing.T) {
	// 2025-07-21 is a Monday.
	week := []struct {
		key  DayKey
		want bool
	}{
		{"2025-07-21", true},  // Mon
		{"2025-07-22", true},  // Tue
		{"2025-07-23", true},  // Wed
		{"2025-07-24", true},  // Thu
		{"2025-07-25", true},  // Fri
		{"2025-07-26", false}, // Sat
		{"2025-07-27", false}, // Sun
	}
	for _, tc := range week {
		if got := IsWorkingDay(tc.key); got != tc.want {
			t.Errorf("IsWorkingDay(%s): got %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestDayBoundaries_ContiguousAndNonOverlapping(t *testing.T) {
	// GIVEN a run of consecutive days crossing a month boundary
	key := DayKey("2025-07-28")
	for i := 0; i < 7; i++ {
		next := NextDay(key)

		start, end, err := DayBoundaries(key)
		assert.NoError(t, err)
		nextStart, _, err := DayBoundaries(next)
		assert.NoError(t, err)

		// THEN the day's span contains its own midnight and ends before the
		// next day's start
		midnight := mustMidnight(key)
		assert.False(t, start.After(midnight), "start of %s after its midnight", key)
		assert.True(t, midnight.Before(end), "midnight of %s not before its end", key)
		assert.True(t, end.Before(nextStart), "end of %s overlaps start of %s", key, next)
		assert.Equal(t, time.Millisecond, nextStart.Sub(end), "gap between %s and %s", key, next)

		key = next
	}
}

func TestDayBoundaries_MalformedKey(t *testing.T) {
	_, _, err := DayBoundaries("2025/07/28")
	assert.Error(t, err)
}

func TestRecoveryWindowFor_FridayMiss(t *testing.T) {
	// GIVEN a missed Friday
	win, err := RecoveryWindowFor("2025-07-25")

	// THEN the window is the next day (Saturday) with a single post
	assert.NoError(t, err)
	assert.Equal(t, RecoveryWindow{
		EligibleDate:         "2025-07-26",
		PostsRequired:        1,
		IsWorkingDayRecovery: false,
	}, win)
}

func TestRecoveryWindowFor_WeekdayMiss(t *testing.T) {
	// GIVEN a missed Tuesday
	win, err := RecoveryWindowFor("2025-08-05")

	// THEN the window is the next working day with two posts
	assert.NoError(t, err)
	assert.Equal(t, RecoveryWindow{
		EligibleDate:         "2025-08-06",
		PostsRequired:        2,
		IsWorkingDayRecovery: true,
	}, win)
}

func TestRecoveryWindowFor_CrossesYearBoundary(t *testing.T) {
	// GIVEN a missed Friday on New Year's Eve (2021-12-31 is a Friday)
	win, err := RecoveryWindowFor("2021-12-31")

	// THEN recovery is eligible on January 1st
	assert.NoError(t, err)
	assert.Equal(t, DayKey("2022-01-01"), win.EligibleDate)
	assert.Equal(t, 1, win.PostsRequired)
}

func TestRecoveryWindowFor_CrossesMonthBoundary(t *testing.T) {
	// GIVEN a missed Thursday at the end of July (2025-07-31)
	win, err := RecoveryWindowFor("2025-07-31")

	// THEN the next working day is Friday, August 1st
	assert.NoError(t, err)
	assert.Equal(t, DayKey("2025-08-01"), win.EligibleDate)
	assert.Equal(t, 2, win.PostsRequired)
	assert.True(t, win.IsWorkingDayRecovery)
}

func TestRecoveryWindowFor_WeekendMiss_Rejected(t *testing.T) {
	_, err := RecoveryWindowFor("2025-07-26") // Saturday
	assert.Error(t, err)
	_, err = RecoveryWindowFor("2025-07-27") // Sunday
	assert.Error(t, err)
}

func TestContributes_WorkingDayAlwaysCounts(t *testing.T) {
	// Wednesday posts count toward a Tuesday miss.
	assert.True(t, Contributes("2025-08-06", "2025-08-05"))
}

func TestContributes_SaturdayOnlyAfterFridayMiss(t *testing.T) {
	// Saturday right after a Friday miss counts.
	assert.True(t, Contributes("2025-07-26", "2025-07-25"))
	// A Saturday that does not immediately follow the tracked Friday does not.
	assert.False(t, Contributes("2025-08-02", "2025-07-25"))
	// Saturday after a weekday miss does not count either.
	assert.False(t, Contributes("2025-08-09", "2025-08-05"))
}

func TestContributes_SundayNeverCounts(t *testing.T) {
	assert.False(t, Contributes("2025-07-27", "2025-07-25"))
	assert.False(t, Contributes("2025-08-10", "2025-08-05"))
}
