package domain

import (
	"sort"
	"time"

	sessiondomain "studytrack/internal/modules/session/domain"
)

const dayLayout = "2006-01-02"

// Streak summarises consecutive study days. Only Current drives insights.
type Streak struct {
	Current        int    `json:"current"`
	Longest        int    `json:"longest"`
	TotalStudyDays int    `json:"totalStudyDays"`
	LastStudyDate  string `json:"lastStudyDate,omitempty"`
}

// StudyDays returns the distinct calendar days in loc that hold at least one
// session, newest first.
func StudyDays(sessions []sessiondomain.Session, loc *time.Location) []time.Time {
	seen := make(map[string]time.Time, len(sessions))
	for _, s := range sessions {
		day := s.Day(loc)
		seen[day.Format(dayLayout)] = day
	}
	days := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CurrentStreak counts consecutive studied days ending today, or ending
// yesterday when nothing was logged today yet. Calendar days are taken in the
// location of now.
func CurrentStreak(sessions []sessiondomain.Session, now time.Time) int {
	studied := make(map[string]struct{}, len(sessions))
	for _, day := range StudyDays(sessions, now.Location()) {
		studied[day.Format(dayLayout)] = struct{}{}
	}
	has := func(day time.Time) bool {
		_, ok := studied[day.Format(dayLayout)]
		return ok
	}

	cursor := midnight(now)
	if !has(cursor) {
		cursor = cursor.AddDate(0, 0, -1)
		if !has(cursor) {
			return 0
		}
	}
	streak := 0
	for has(cursor) {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak is the longest run of consecutive studied days anywhere in history.
func LongestStreak(sessions []sessiondomain.Session, loc *time.Location) int {
	days := StudyDays(sessions, loc)
	longest, run := 0, 0
	for i := len(days) - 1; i >= 0; i-- {
		if i < len(days)-1 && days[i+1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func ComputeStreak(sessions []sessiondomain.Session, now time.Time) Streak {
	days := StudyDays(sessions, now.Location())
	out := Streak{
		Current:        CurrentStreak(sessions, now),
		Longest:        LongestStreak(sessions, now.Location()),
		TotalStudyDays: len(days),
	}
	if len(days) > 0 {
		out.LastStudyDate = days[0].Format(dayLayout)
	}
	return out
}
