package out

import (
	"context"

	analyticsout "studytrack/internal/modules/analytics/port/out"
	settingsin "studytrack/internal/modules/settings/port/in"
)

type SettingsGoalSource struct {
	settings settingsin.Usecase
}

func NewSettingsGoalSource(settings settingsin.Usecase) analyticsout.GoalSource {
	return &SettingsGoalSource{settings: settings}
}

func (a *SettingsGoalSource) Goals(ctx context.Context) (analyticsout.Goals, error) {
	s, err := a.settings.Get(ctx)
	if err != nil {
		return analyticsout.Goals{}, err
	}
	return analyticsout.Goals{DailyMinutes: s.DailyGoal, WeeklyMinutes: s.WeeklyGoal, BadgeEnabled: s.BadgeEnabled}, nil
}
