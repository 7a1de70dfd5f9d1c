package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// post builds a PostingEvent at a KST wall-clock time for bucketing tests.
func post(id string, kst time.Time) PostingEvent {
	return NewPostingEvent(id, "board-1", "entry "+id, 300, kst)
}

func kstTime(key DayKey, hour, minute int) time.Time {
	midnight := mustMidnight(key)
	return midnight.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestGroupIntoDayBuckets_PartitionsAndSorts(t *testing.T) {
	// GIVEN three posts across two days, the same-day pair out of order
	events := []PostingEvent{
		post("b", kstTime("2025-07-21", 22, 10)),
		post("a", kstTime("2025-07-21", 9, 5)),
		post("c", kstTime("2025-07-23", 12, 0)),
	}

	// WHEN grouped into day buckets
	buckets, err := GroupIntoDayBuckets(events)

	// THEN buckets are ascending by date and each day's events ascending by time
	assert.NoError(t, err)
	assert.Len(t, buckets, 2)
	assert.Equal(t, DayKey("2025-07-21"), buckets[0].DayKey)
	assert.Equal(t, []string{"a", "b"}, []string{buckets[0].Events[0].ID, buckets[0].Events[1].ID})
	assert.True(t, buckets[0].WorkingDay)
	assert.Equal(t, DayKey("2025-07-23"), buckets[1].DayKey)
	assert.Equal(t, 1, buckets[1].PostCount())
}

func TestGroupIntoDayBuckets_Empty(t *testing.T) {
	buckets, err := GroupIntoDayBuckets(nil)
	assert.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestGroupIntoDayBuckets_MalformedDayKey(t *testing.T) {
	// GIVEN an event whose day key was corrupted upstream
	ev := post("x", kstTime("2025-07-21", 10, 0))
	ev.DayKey = "2025-7-21"

	// WHEN grouped
	_, err := GroupIntoDayBuckets([]PostingEvent{ev})

	// THEN the malformed key is rejected at the calendar boundary
	assert.Error(t, err)
}

func TestSynthesizeCompleteTimeline_FillsGaps(t *testing.T) {
	// GIVEN buckets with a three-day gap spanning a weekend
	buckets, err := GroupIntoDayBuckets([]PostingEvent{
		post("a", kstTime("2025-07-24", 9, 0)), // Thu
		post("b", kstTime("2025-07-28", 9, 0)), // next Mon
	})
	assert.NoError(t, err)

	// WHEN the timeline is synthesized
	timeline, err := SynthesizeCompleteTimeline(buckets, "")

	// THEN every day between the first and last exists exactly once
	assert.NoError(t, err)
	want := []DayKey{"2025-07-24", "2025-07-25", "2025-07-26", "2025-07-27", "2025-07-28"}
	assert.Len(t, timeline, len(want))
	for i, key := range want {
		assert.Equal(t, key, timeline[i].DayKey)
	}
	// Gap days are empty buckets with the correct working-day flag.
	assert.Equal(t, 0, timeline[1].PostCount())
	assert.True(t, timeline[1].WorkingDay)   // Fri
	assert.False(t, timeline[2].WorkingDay)  // Sat
	assert.False(t, timeline[3].WorkingDay)  // Sun
}

func TestSynthesizeCompleteTimeline_CrossesMonthBoundary(t *testing.T) {
	buckets, err := GroupIntoDayBuckets([]PostingEvent{
		post("a", kstTime("2025-07-30", 9, 0)),
		post("b", kstTime("2025-08-02", 9, 0)),
	})
	assert.NoError(t, err)

	timeline, err := SynthesizeCompleteTimeline(buckets, "")
	assert.NoError(t, err)
	want := []DayKey{"2025-07-30", "2025-07-31", "2025-08-01", "2025-08-02"}
	assert.Len(t, timeline, len(want))
	for i, key := range want {
		assert.Equal(t, key, timeline[i].DayKey)
	}
}

func TestSynthesizeCompleteTimeline_ExplicitHorizonEnd(t *testing.T) {
	// GIVEN a single posted day and a horizon three days later
	buckets, err := GroupIntoDayBuckets([]PostingEvent{
		post("a", kstTime("2025-07-21", 9, 0)),
	})
	assert.NoError(t, err)

	// WHEN synthesized up to the horizon
	timeline, err := SynthesizeCompleteTimeline(buckets, "2025-07-24")

	// THEN trailing empty days are materialized so misses are simulated
	assert.NoError(t, err)
	assert.Len(t, timeline, 4)
	assert.Equal(t, DayKey("2025-07-24"), timeline[3].DayKey)
	assert.Equal(t, 0, timeline[3].PostCount())
}

func TestSynthesizeCompleteTimeline_HorizonBeforeLastEvent(t *testing.T) {
	buckets, err := GroupIntoDayBuckets([]PostingEvent{
		post("a", kstTime("2025-07-21", 9, 0)),
	})
	assert.NoError(t, err)

	_, err = SynthesizeCompleteTimeline(buckets, "2025-07-20")
	assert.Error(t, err)
}

func TestSynthesizeCompleteTimeline_EmptyInput(t *testing.T) {
	// No events and no horizon: nothing to simulate.
	timeline, err := SynthesizeCompleteTimeline(nil, "")
	assert.NoError(t, err)
	assert.Empty(t, timeline)

	// No events but an explicit horizon: one empty day.
	timeline, err = SynthesizeCompleteTimeline(nil, "2025-07-21")
	assert.NoError(t, err)
	assert.Len(t, timeline, 1)
	assert.Equal(t, 0, timeline[0].PostCount())
}

func TestSynthesizeCompleteTimeline_DuplicateDayRejected(t *testing.T) {
	dup, err := newDayBucket("2025-07-21")
	assert.NoError(t, err)

	_, err = SynthesizeCompleteTimeline([]DayBucket{dup, dup}, "")
	assert.Error(t, err)
}
