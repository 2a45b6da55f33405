package service

import (
	"time"

	"studytrack/internal/modules/analytics/domain"
	analyticsout "studytrack/internal/modules/analytics/port/out"
	sessiondomain "studytrack/internal/modules/session/domain"
	"studytrack/internal/platform/clock"
)

// Report is every derived view over one session snapshot at one instant.
type Report struct {
	Totals          domain.Totals
	Streak          domain.Streak
	Weekly          []domain.WeekBucket
	Goals           domain.GoalProgress
	Insights        []domain.Insight
	Recommendations []domain.Insight
}

type AnalyticsService struct {
	clock     clock.Clock
	weekStart time.Weekday
}

func NewAnalyticsService(clk clock.Clock, weekStart time.Weekday) *AnalyticsService {
	return &AnalyticsService{clock: clk, weekStart: weekStart}
}

func (s *AnalyticsService) Now() time.Time {
	return s.clock.Now()
}

func (s *AnalyticsService) Totals(sessions []sessiondomain.Session) domain.Totals {
	return domain.ComputeTotals(sessions)
}

func (s *AnalyticsService) Streak(sessions []sessiondomain.Session) domain.Streak {
	return domain.ComputeStreak(sessions, s.clock.Now())
}

func (s *AnalyticsService) Weekly(sessions []sessiondomain.Session) []domain.WeekBucket {
	return domain.WeeklyProgress(sessions, s.clock.Now().Location(), s.weekStart)
}

func (s *AnalyticsService) Goals(sessions []sessiondomain.Session, goals analyticsout.Goals) domain.GoalProgress {
	return domain.ComputeGoalProgress(sessions, goals.DailyMinutes, goals.WeeklyMinutes, s.clock.Now(), s.weekStart)
}

func (s *AnalyticsService) Insights(sessions []sessiondomain.Session) []domain.Insight {
	return domain.Insights(sessions, s.clock.Now())
}

func (s *AnalyticsService) Recommendations(sessions []sessiondomain.Session) []domain.Insight {
	return domain.Recommendations(sessions, s.clock.Now())
}

// Report reads the clock once so every view agrees on "now".
func (s *AnalyticsService) Report(sessions []sessiondomain.Session, goals analyticsout.Goals) Report {
	now := s.clock.Now()
	return Report{
		Totals:          domain.ComputeTotals(sessions),
		Streak:          domain.ComputeStreak(sessions, now),
		Weekly:          domain.WeeklyProgress(sessions, now.Location(), s.weekStart),
		Goals:           domain.ComputeGoalProgress(sessions, goals.DailyMinutes, goals.WeeklyMinutes, now, s.weekStart),
		Insights:        domain.Insights(sessions, now),
		Recommendations: domain.Recommendations(sessions, now),
	}
}
