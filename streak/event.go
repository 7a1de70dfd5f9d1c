// Defines the PostingEvent value that models one qualifying post in the
// backfill simulation. Timezone conversion is owned by the event source; the
// engine trusts the KST-resolved fields and never redoes the arithmetic.

package streak

import (
	"fmt"
	"time"
)

// PostingEvent is one post in a user's history, already resolved to KST.
// Immutable once constructed.
type PostingEvent struct {
	ID            string    // Unique identifier of the post
	BoardID       string    // Board the post was written on
	Title         string    // Post title (diagnostic only)
	ContentLength int       // Length of the post body in characters
	Timestamp     time.Time // Authoritative instant of the post
	DayKey        DayKey    // KST calendar day the post belongs to
	KSTTime       time.Time // Wall-clock instant of the post in KST
}

// NewPostingEvent resolves an absolute timestamp to its KST calendar day and
// wall-clock instant. This is the single place raw timestamps enter the
// engine's calendar.
func NewPostingEvent(id, boardID, title string, contentLength int, ts time.Time) PostingEvent {
	kst := ts.In(KST)
	return PostingEvent{
		ID:            id,
		BoardID:       boardID,
		Title:         title,
		ContentLength: contentLength,
		Timestamp:     ts,
		DayKey:        DayKeyOf(ts),
		KSTTime:       kst,
	}
}

// String returns a human-readable representation of a PostingEvent.
func (e PostingEvent) String() string {
	return fmt.Sprintf("PostingEvent: (ID: %s, Day: %s, At: %s)", e.ID, e.DayKey, e.KSTTime.Format("15:04:05"))
}
