package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsout "studytrack/internal/modules/analytics/adapter/out"
	analyticsdto "studytrack/internal/modules/analytics/dto"
	analyticsin "studytrack/internal/modules/analytics/port/in"
	analyticsport "studytrack/internal/modules/analytics/port/out"
	analyticsservice "studytrack/internal/modules/analytics/service"
	"studytrack/internal/modules/analytics/usecase"
	sessionout "studytrack/internal/modules/session/adapter/out"
	sessiondomain "studytrack/internal/modules/session/domain"
	sessiondto "studytrack/internal/modules/session/dto"
	sessionin "studytrack/internal/modules/session/port/in"
	sessionport "studytrack/internal/modules/session/port/out"
	sessionservice "studytrack/internal/modules/session/service"
	sessionusecase "studytrack/internal/modules/session/usecase"
	"studytrack/internal/platform/clock"
	"studytrack/internal/platform/id"
)

var now = time.Date(2026, 5, 6, 18, 0, 0, 0, time.UTC)

type stack struct {
	sessions  sessionin.Usecase
	analytics analyticsin.Usecase
	store     sessionport.KVStore
}

func newStack(t *testing.T, goals analyticsport.GoalSource) stack {
	t.Helper()
	dir := t.TempDir()
	clk := clock.Fixed(now)
	extStore := sessionout.NewFileKVStore(filepath.Join(dir, "extension"))
	pageStore := sessionout.NewFileKVStore(filepath.Join(dir, "page"))
	ext := sessionservice.NewRepository(sessiondomain.BackendExtension, extStore, clk, 0)
	page := sessionservice.NewRepository(sessiondomain.BackendPage, pageStore, clk, 0)
	reconciler := sessionservice.NewReconciler(ext, page, nil, nil)
	sessions := sessionusecase.NewInteractor(sessionservice.NewSessionService(clk, id.NewMonotonic(clk), page, reconciler, nil, nil), clk)

	uc := usecase.NewInteractor(
		analyticsservice.NewAnalyticsService(clk, time.Sunday),
		analyticsout.NewSessionUsecaseSource(sessions),
		analyticsout.NewKVStreakCache(pageStore),
		goals,
		nil,
	)
	return stack{sessions: sessions, analytics: uc, store: pageStore}
}

func recTitles(items []analyticsdto.InsightOutput) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestFirstSessionEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStack(t, nil)

	before, err := s.analytics.Recommendations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Start Your Journey"}, recTitles(before))
	streak, err := s.analytics.Streak(ctx)
	require.NoError(t, err)
	assert.Zero(t, streak.Current)
	assert.Empty(t, streak.Badge)

	_, err = s.sessions.AddSession(ctx, sessiondto.AddSessionInput{Subject: "Quantitative", Duration: 30, Date: now.Format(time.RFC3339)})
	require.NoError(t, err)

	streak, err = s.analytics.Streak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.Current)
	assert.Equal(t, "1", streak.Badge)
	cached, found, err := s.store.Get(ctx, sessiondomain.KeyStreak)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1", string(cached))

	stats, err := s.analytics.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, []analyticsdto.SubjectMinutes{{Subject: "Quantitative", Minutes: 30}}, stats.Subjects)

	after, err := s.analytics.Recommendations(ctx)
	require.NoError(t, err)
	assert.NotContains(t, recTitles(after), "Start Your Journey")
}

func TestDashboardAgreesWithSingleViews(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStack(t, nil)
	for i, subject := range []string{"Verbal", "Quantitative", "Verbal"} {
		_, err := s.sessions.AddSession(ctx, sessiondto.AddSessionInput{
			Subject:  subject,
			Duration: 50,
			Date:     now.AddDate(0, 0, -i).Format(time.RFC3339),
		})
		require.NoError(t, err)
	}

	dash, err := s.analytics.Dashboard(ctx)
	require.NoError(t, err)
	insights, err := s.analytics.Insights(ctx)
	require.NoError(t, err)
	weekly, err := s.analytics.Weekly(ctx)
	require.NoError(t, err)
	goals, err := s.analytics.Goals(ctx)
	require.NoError(t, err)

	assert.Equal(t, insights, dash.Insights)
	assert.Equal(t, weekly, dash.Weekly)
	assert.Equal(t, goals, dash.Goals)
	assert.Equal(t, 3, dash.Streak.Current)
	assert.Equal(t, 50, dash.Goals.TodayMinutes)
	assert.Equal(t, 60, dash.Goals.DailyGoal)
}

type fixedGoals struct {
	goals analyticsport.Goals
	err   error
}

func (f fixedGoals) Goals(context.Context) (analyticsport.Goals, error) { return f.goals, f.err }

func TestGoalsComeFromSettingsWithFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	custom := newStack(t, fixedGoals{goals: analyticsport.Goals{DailyMinutes: 15, WeeklyMinutes: 100}})
	_, err := custom.sessions.AddSession(ctx, sessiondto.AddSessionInput{Subject: "Review", Duration: 20})
	require.NoError(t, err)
	got, err := custom.analytics.Goals(ctx)
	require.NoError(t, err)
	assert.True(t, got.DailyMet)
	assert.Equal(t, 20, got.WeeklyPercent)
	streak, err := custom.analytics.Streak(ctx)
	require.NoError(t, err)
	assert.Empty(t, streak.Badge, "badge disabled in settings")

	broken := newStack(t, fixedGoals{err: errors.New("settings offline")})
	got, err = broken.analytics.Goals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 420, got.WeeklyGoal)
}
