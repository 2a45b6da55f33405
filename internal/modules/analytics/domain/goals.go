package domain

import (
	"time"

	sessiondomain "studytrack/internal/modules/session/domain"
)

type Milestone struct {
	Sessions int    `json:"sessions"`
	Title    string `json:"title"`
	Reward   string `json:"reward"`
}

var Milestones = []Milestone{
	{Sessions: 10, Title: "Getting Started", Reward: "First milestone!"},
	{Sessions: 50, Title: "Committed Learner", Reward: "Great consistency!"},
	{Sessions: 100, Title: "Dedicated Student", Reward: "You're on fire!"},
	{Sessions: 250, Title: "GMAT Warrior", Reward: "Incredible dedication!"},
	{Sessions: 500, Title: "Study Master", Reward: "You're a legend!"},
}

type GoalProgress struct {
	TodayMinutes   int        `json:"todayMinutes"`
	DailyGoal      int        `json:"dailyGoal"`
	DailyPercent   int        `json:"dailyPercent"`
	DailyMet       bool       `json:"dailyMet"`
	WeekMinutes    int        `json:"weekMinutes"`
	WeeklyGoal     int        `json:"weeklyGoal"`
	WeeklyPercent  int        `json:"weeklyPercent"`
	WeeklyMet      bool       `json:"weeklyMet"`
	Achieved       []string   `json:"achieved"`
	NextMilestone  *Milestone `json:"nextMilestone,omitempty"`
	SessionsToNext int        `json:"sessionsToNext,omitempty"`
}

// ComputeGoalProgress measures today's and this week's minutes against the
// configured goals. A goal of zero counts as met.
func ComputeGoalProgress(sessions []sessiondomain.Session, dailyGoal, weeklyGoal int, now time.Time, first time.Weekday) GoalProgress {
	loc := now.Location()
	today := midnight(now)
	weekStart := WeekStartOf(now, loc, first)
	weekEnd := weekStart.AddDate(0, 0, 7)

	out := GoalProgress{DailyGoal: dailyGoal, WeeklyGoal: weeklyGoal, Achieved: []string{}}
	for _, s := range sessions {
		day := s.Day(loc)
		if day.Equal(today) {
			out.TodayMinutes += s.Duration
		}
		if !day.Before(weekStart) && day.Before(weekEnd) {
			out.WeekMinutes += s.Duration
		}
	}
	out.DailyPercent, out.DailyMet = percentOf(out.TodayMinutes, dailyGoal)
	out.WeeklyPercent, out.WeeklyMet = percentOf(out.WeekMinutes, weeklyGoal)

	for _, m := range Milestones {
		if len(sessions) >= m.Sessions {
			out.Achieved = append(out.Achieved, m.Title)
			continue
		}
		next := m
		out.NextMilestone = &next
		out.SessionsToNext = m.Sessions - len(sessions)
		break
	}
	return out
}

func percentOf(minutes, goal int) (int, bool) {
	if goal <= 0 {
		return 100, true
	}
	pct := minutes * 100 / goal
	if pct > 100 {
		pct = 100
	}
	return pct, minutes >= goal
}
