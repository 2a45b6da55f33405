package usecase

import (
	"context"

	"studytrack/internal/modules/settings/domain"
	settingsdto "studytrack/internal/modules/settings/dto"
	settingsin "studytrack/internal/modules/settings/port/in"
	"studytrack/internal/modules/settings/service"
)

type Interactor struct {
	svc *service.SettingsService
}

func NewInteractor(svc *service.SettingsService) settingsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (settingsdto.Settings, error) {
	current, err := i.svc.Get(ctx)
	if err != nil {
		return settingsdto.Settings{}, err
	}
	return toDTO(current), nil
}

func (i *Interactor) Update(ctx context.Context, input settingsdto.UpdateInput) (settingsdto.Settings, error) {
	patch := domain.Patch{
		Notifications:          input.Notifications,
		SyncEnabled:            input.SyncEnabled,
		DailyGoal:              input.DailyGoal,
		WeeklyGoal:             input.WeeklyGoal,
		ReminderTime:           input.ReminderTime,
		PreferredSessionLength: input.PreferredSessionLength,
		BadgeEnabled:           input.BadgeEnabled,
	}
	if input.Theme != nil {
		theme := domain.Theme(*input.Theme)
		patch.Theme = &theme
	}
	updated, err := i.svc.Update(ctx, patch)
	if err != nil {
		return settingsdto.Settings{}, err
	}
	return toDTO(updated), nil
}

func toDTO(s domain.Settings) settingsdto.Settings {
	return settingsdto.Settings{
		Theme:                  string(s.Theme),
		Notifications:          s.Notifications,
		SyncEnabled:            s.SyncEnabled,
		DailyGoal:              s.DailyGoal,
		WeeklyGoal:             s.WeeklyGoal,
		ReminderTime:           s.ReminderTime,
		PreferredSessionLength: s.PreferredSessionLength,
		BadgeEnabled:           s.BadgeEnabled,
		UpdatedAt:              s.UpdatedAt,
	}
}
