// Event bucketing: partitions a flat, time-ordered posting history into one
// bucket per KST calendar day and synthesizes empty buckets for gap days, so
// the simulator never silently skips a missed day.

package streak

import (
	"fmt"
	"sort"
	"time"
)

// DayBucket holds all posts of one KST calendar day.
type DayBucket struct {
	DayKey     DayKey         // calendar day this bucket covers
	Midnight   time.Time      // 00:00:00 KST of the day
	WorkingDay bool           // Monday-Friday in KST
	Events     []PostingEvent // ascending by KST time, possibly empty
}

// PostCount returns the number of posts in the bucket.
func (b DayBucket) PostCount() int { return len(b.Events) }

// newDayBucket builds an empty bucket for a validated day key.
func newDayBucket(key DayKey) (DayBucket, error) {
	midnight, err := ParseDayKey(key)
	if err != nil {
		return DayBucket{}, err
	}
	return DayBucket{
		DayKey:     key,
		Midnight:   midnight,
		WorkingDay: IsWorkingDay(key),
	}, nil
}

// GroupIntoDayBuckets partitions events by calendar-day key, sorts each
// day's events ascending by KST time, and returns the buckets sorted
// ascending by date. Events carrying malformed day keys are rejected.
func GroupIntoDayBuckets(events []PostingEvent) ([]DayBucket, error) {
	byDay := make(map[DayKey][]PostingEvent)
	for _, ev := range events {
		if _, err := ParseDayKey(ev.DayKey); err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		byDay[ev.DayKey] = append(byDay[ev.DayKey], ev)
	}

	keys := make([]DayKey, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	buckets := make([]DayBucket, 0, len(keys))
	for _, key := range keys {
		bucket, err := newDayBucket(key)
		if err != nil {
			return nil, err
		}
		dayEvents := byDay[key]
		sort.SliceStable(dayEvents, func(i, j int) bool {
			return dayEvents[i].KSTTime.Before(dayEvents[j].KSTTime)
		})
		bucket.Events = dayEvents
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

// SynthesizeCompleteTimeline inserts an empty bucket for every calendar day
// between the earliest bucket and the latest (or the explicit horizon end,
// when non-empty) that has no events. The input must already be sorted
// ascending, as produced by GroupIntoDayBuckets.
func SynthesizeCompleteTimeline(buckets []DayBucket, horizonEnd DayKey) ([]DayBucket, error) {
	if len(buckets) == 0 {
		if horizonEnd == "" {
			return nil, nil
		}
		bucket, err := newDayBucket(horizonEnd)
		if err != nil {
			return nil, err
		}
		return []DayBucket{bucket}, nil
	}

	last := buckets[len(buckets)-1].DayKey
	if horizonEnd != "" {
		if _, err := ParseDayKey(horizonEnd); err != nil {
			return nil, err
		}
		if horizonEnd < last {
			return nil, fmt.Errorf("horizon end %s precedes last event day %s", horizonEnd, last)
		}
		last = horizonEnd
	}

	byDay := make(map[DayKey]DayBucket, len(buckets))
	for _, b := range buckets {
		if _, dup := byDay[b.DayKey]; dup {
			return nil, fmt.Errorf("duplicate bucket for day %s", b.DayKey)
		}
		byDay[b.DayKey] = b
	}

	timeline := make([]DayBucket, 0, len(buckets))
	for key := buckets[0].DayKey; key <= last; key = NextDay(key) {
		if bucket, ok := byDay[key]; ok {
			timeline = append(timeline, bucket)
			continue
		}
		empty, err := newDayBucket(key)
		if err != nil {
			return nil, err
		}
		timeline = append(timeline, empty)
	}
	return timeline, nil
}
