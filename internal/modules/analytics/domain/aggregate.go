package domain

import (
	"math"
	"sort"
	"time"

	sessiondomain "studytrack/internal/modules/session/domain"
)

// MaxWeeks bounds the weekly progress series.
const MaxWeeks = 8

type Totals struct {
	TotalSessions        int            `json:"totalSessions"`
	TotalMinutes         int            `json:"totalMinutes"`
	TotalHours           float64        `json:"totalHours"`
	AverageSessionLength float64        `json:"averageSessionLength"`
	SubjectBreakdown     map[string]int `json:"subjectBreakdown"`
}

func ComputeTotals(sessions []sessiondomain.Session) Totals {
	out := Totals{SubjectBreakdown: map[string]int{}}
	for _, s := range sessions {
		out.TotalSessions++
		out.TotalMinutes += s.Duration
		out.SubjectBreakdown[string(s.Subject)] += s.Duration
	}
	out.TotalHours = float64(out.TotalMinutes) / 60
	if out.TotalSessions > 0 {
		out.AverageSessionLength = float64(out.TotalMinutes) / float64(out.TotalSessions)
	}
	return out
}

// AverageDuration is the mean session length in minutes, 0 for no sessions.
func AverageDuration(sessions []sessiondomain.Session) float64 {
	return ComputeTotals(sessions).AverageSessionLength
}

// RoundHours converts minutes to hours rounded to one decimal place.
func RoundHours(minutes int) float64 {
	return math.Round(float64(minutes)/6) / 10
}

type WeekBucket struct {
	WeekStart    string   `json:"weekStart"`
	Sessions     int      `json:"sessions"`
	TotalMinutes int      `json:"totalMinutes"`
	Hours        float64  `json:"hours"`
	Subjects     []string `json:"subjects"`
}

// WeekStartOf returns midnight of the first day of t's week in loc.
func WeekStartOf(t time.Time, loc *time.Location, first time.Weekday) time.Time {
	local := t.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	offset := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// WeeklyProgress buckets sessions by calendar week and keeps the most recent
// MaxWeeks non-empty weeks in ascending order.
func WeeklyProgress(sessions []sessiondomain.Session, loc *time.Location, first time.Weekday) []WeekBucket {
	type acc struct {
		bucket   WeekBucket
		subjects map[sessiondomain.Subject]struct{}
	}
	weeks := map[string]*acc{}
	for _, s := range sessions {
		key := WeekStartOf(s.Date, loc, first).Format(dayLayout)
		w, ok := weeks[key]
		if !ok {
			w = &acc{bucket: WeekBucket{WeekStart: key}, subjects: map[sessiondomain.Subject]struct{}{}}
			weeks[key] = w
		}
		w.bucket.Sessions++
		w.bucket.TotalMinutes += s.Duration
		w.subjects[s.Subject] = struct{}{}
	}

	out := make([]WeekBucket, 0, len(weeks))
	for _, w := range weeks {
		w.bucket.Hours = RoundHours(w.bucket.TotalMinutes)
		w.bucket.Subjects = make([]string, 0, len(w.subjects))
		for _, subject := range sessiondomain.Subjects {
			if _, ok := w.subjects[subject]; ok {
				w.bucket.Subjects = append(w.bucket.Subjects, string(subject))
			}
		}
		out = append(out, w.bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart < out[j].WeekStart })
	if len(out) > MaxWeeks {
		out = out[len(out)-MaxWeeks:]
	}
	return out
}
