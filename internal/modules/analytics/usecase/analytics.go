package usecase

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"studytrack/internal/modules/analytics/domain"
	analyticsdto "studytrack/internal/modules/analytics/dto"
	analyticsin "studytrack/internal/modules/analytics/port/in"
	analyticsout "studytrack/internal/modules/analytics/port/out"
	"studytrack/internal/modules/analytics/service"
	sessiondomain "studytrack/internal/modules/session/domain"
)

type Interactor struct {
	svc      *service.AnalyticsService
	sessions analyticsout.SessionSource
	cache    analyticsout.StreakCache
	goals    analyticsout.GoalSource
	logger   *zap.Logger
}

// NewInteractor wires the analytics use cases. cache and goals may be nil.
func NewInteractor(svc *service.AnalyticsService, sessions analyticsout.SessionSource, cache analyticsout.StreakCache, goals analyticsout.GoalSource, logger *zap.Logger) analyticsin.Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{svc: svc, sessions: sessions, cache: cache, goals: goals, logger: logger}
}

func (i *Interactor) Stats(ctx context.Context) (analyticsdto.StatsOutput, error) {
	sessions, err := i.sessions.Sessions(ctx)
	if err != nil {
		return analyticsdto.StatsOutput{}, err
	}
	return toStats(i.svc.Totals(sessions)), nil
}

func (i *Interactor) Streak(ctx context.Context) (analyticsdto.StreakOutput, error) {
	sessions, err := i.sessions.Sessions(ctx)
	if err != nil {
		return analyticsdto.StreakOutput{}, err
	}
	goals := i.loadGoals(ctx)
	streak := i.svc.Streak(sessions)
	i.cacheStreak(ctx, streak.Current)
	return toStreak(streak, goals.BadgeEnabled), nil
}

func (i *Interactor) Weekly(ctx context.Context) ([]analyticsdto.WeekOutput, error) {
	sessions, err := i.sessions.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	return toWeeks(i.svc.Weekly(sessions)), nil
}

func (i *Interactor) Goals(ctx context.Context) (analyticsdto.GoalsOutput, error) {
	sessions, err := i.sessions.Sessions(ctx)
	if err != nil {
		return analyticsdto.GoalsOutput{}, err
	}
	return toGoals(i.svc.Goals(sessions, i.loadGoals(ctx))), nil
}

func (i *Interactor) Insights(ctx context.Context) ([]analyticsdto.InsightOutput, error) {
	sessions, err := i.sessions.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	return toInsights(i.svc.Insights(sessions)), nil
}

func (i *Interactor) Recommendations(ctx context.Context) ([]analyticsdto.InsightOutput, error) {
	sessions, err := i.sessions.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	return toInsights(i.svc.Recommendations(sessions)), nil
}

func (i *Interactor) Dashboard(ctx context.Context) (analyticsdto.DashboardOutput, error) {
	sessions, err := i.sessions.Sessions(ctx)
	if err != nil {
		return analyticsdto.DashboardOutput{}, err
	}
	goals := i.loadGoals(ctx)
	report := i.svc.Report(sessions, goals)
	i.cacheStreak(ctx, report.Streak.Current)
	return analyticsdto.DashboardOutput{
		Stats:           toStats(report.Totals),
		Streak:          toStreak(report.Streak, goals.BadgeEnabled),
		Weekly:          toWeeks(report.Weekly),
		Goals:           toGoals(report.Goals),
		Insights:        toInsights(report.Insights),
		Recommendations: toInsights(report.Recommendations),
	}, nil
}

// loadGoals falls back to the default goals when settings cannot be read.
func (i *Interactor) loadGoals(ctx context.Context) analyticsout.Goals {
	fallback := analyticsout.Goals{DailyMinutes: 60, WeeklyMinutes: 420, BadgeEnabled: true}
	if i.goals == nil {
		return fallback
	}
	goals, err := i.goals.Goals(ctx)
	if err != nil {
		i.logger.Warn("settings unavailable, using default goals", zap.Error(err))
		return fallback
	}
	return goals
}

func (i *Interactor) cacheStreak(ctx context.Context, current int) {
	if i.cache == nil {
		return
	}
	if err := i.cache.SaveStreak(ctx, current); err != nil {
		i.logger.Warn("streak cache write failed", zap.Error(err))
	}
}

func toStats(t domain.Totals) analyticsdto.StatsOutput {
	out := analyticsdto.StatsOutput{
		TotalSessions:        t.TotalSessions,
		TotalMinutes:         t.TotalMinutes,
		TotalHours:           t.TotalHours,
		AverageSessionLength: t.AverageSessionLength,
		Subjects:             []analyticsdto.SubjectMinutes{},
	}
	for _, subject := range sessiondomain.Subjects {
		if minutes, ok := t.SubjectBreakdown[string(subject)]; ok {
			out.Subjects = append(out.Subjects, analyticsdto.SubjectMinutes{Subject: string(subject), Minutes: minutes})
		}
	}
	return out
}

func toStreak(s domain.Streak, badge bool) analyticsdto.StreakOutput {
	out := analyticsdto.StreakOutput{
		Current:        s.Current,
		Longest:        s.Longest,
		TotalStudyDays: s.TotalStudyDays,
		LastStudyDate:  s.LastStudyDate,
	}
	if badge && s.Current > 0 {
		out.Badge = strconv.Itoa(s.Current)
	}
	return out
}

func toWeeks(weeks []domain.WeekBucket) []analyticsdto.WeekOutput {
	out := make([]analyticsdto.WeekOutput, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, analyticsdto.WeekOutput{
			WeekStart:    w.WeekStart,
			Sessions:     w.Sessions,
			TotalMinutes: w.TotalMinutes,
			Hours:        w.Hours,
			Subjects:     w.Subjects,
		})
	}
	return out
}

func toGoals(g domain.GoalProgress) analyticsdto.GoalsOutput {
	out := analyticsdto.GoalsOutput{
		TodayMinutes:   g.TodayMinutes,
		DailyGoal:      g.DailyGoal,
		DailyPercent:   g.DailyPercent,
		DailyMet:       g.DailyMet,
		WeekMinutes:    g.WeekMinutes,
		WeeklyGoal:     g.WeeklyGoal,
		WeeklyPercent:  g.WeeklyPercent,
		WeeklyMet:      g.WeeklyMet,
		Achieved:       g.Achieved,
		SessionsToNext: g.SessionsToNext,
	}
	if g.NextMilestone != nil {
		out.NextMilestone = &analyticsdto.MilestoneOutput{
			Sessions: g.NextMilestone.Sessions,
			Title:    g.NextMilestone.Title,
			Reward:   g.NextMilestone.Reward,
		}
	}
	return out
}

func toInsights(items []domain.Insight) []analyticsdto.InsightOutput {
	out := make([]analyticsdto.InsightOutput, 0, len(items))
	for _, item := range items {
		out = append(out, analyticsdto.InsightOutput{
			ID:          item.ID,
			Type:        string(item.Type),
			Category:    string(item.Category),
			Title:       item.Title,
			Description: item.Description,
			Action:      item.Action,
		})
	}
	return out
}
