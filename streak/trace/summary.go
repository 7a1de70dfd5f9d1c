package trace

// Summary aggregates a day trace for reporting.
type Summary struct {
	DaysSimulated  int
	WorkingDays    int
	DaysWithPosts  int
	TotalPosts     int
	Recoveries     int
	FinalStatus    string
	PeakStreak     int
	FirstDate      string
	LastDate       string
}

// Summarize reduces a day trace to its Summary. An empty trace yields the
// zero Summary.
func Summarize(bt *BackfillTrace) Summary {
	var s Summary
	if bt == nil || len(bt.Days) == 0 {
		return s
	}
	s.DaysSimulated = len(bt.Days)
	s.FirstDate = bt.Days[0].Date
	s.LastDate = bt.Days[len(bt.Days)-1].Date
	for _, day := range bt.Days {
		if day.WorkingDay {
			s.WorkingDays++
		}
		if day.Posts > 0 {
			s.DaysWithPosts++
		}
		s.TotalPosts += day.Posts
		if day.RecoveryID != "" {
			s.Recoveries++
		}
		if day.LongestStreak > s.PeakStreak {
			s.PeakStreak = day.LongestStreak
		}
	}
	s.FinalStatus = bt.Days[len(bt.Days)-1].StatusAfter
	return s
}
