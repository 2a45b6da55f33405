package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studytrack/internal/modules/settings/domain"
	apperrors "studytrack/internal/platform/errors"
)

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()
	d := domain.Defaults()
	require.NoError(t, d.Validate())
	assert.Equal(t, domain.ThemeLight, d.Theme)
	assert.Equal(t, 60, d.DailyGoal)
	assert.Equal(t, 420, d.WeeklyGoal)
	assert.Equal(t, "19:00", d.ReminderTime)
	assert.Equal(t, 45, d.PreferredSessionLength)
	hour, minute, err := d.Reminder()
	require.NoError(t, err)
	assert.Equal(t, 19, hour)
	assert.Equal(t, 0, minute)
}

func TestValidateRejectsOutOfRangeFields(t *testing.T) {
	t.Parallel()
	cases := map[string]func(*domain.Settings){
		"daily goal":   func(s *domain.Settings) { s.DailyGoal = 1441 },
		"weekly goal":  func(s *domain.Settings) { s.WeeklyGoal = -1 },
		"reminder":     func(s *domain.Settings) { s.ReminderTime = "7pm" },
		"short hour":   func(s *domain.Settings) { s.ReminderTime = "9:00" },
		"theme":        func(s *domain.Settings) { s.Theme = "solarized" },
		"session size": func(s *domain.Settings) { s.PreferredSessionLength = 601 },
	}
	for name, mutate := range cases {
		name, mutate := name, mutate
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := domain.Defaults()
			mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		})
	}
}

func TestApplyOnlyTouchesSetFields(t *testing.T) {
	t.Parallel()
	goal := 90
	off := false
	got := domain.Defaults().Apply(domain.Patch{DailyGoal: &goal, Notifications: &off})
	assert.Equal(t, 90, got.DailyGoal)
	assert.False(t, got.Notifications)
	assert.Equal(t, 420, got.WeeklyGoal)
	assert.True(t, got.SyncEnabled)
}

func TestLatestPrefersNewestUpdate(t *testing.T) {
	t.Parallel()
	older := domain.Defaults()
	older.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := domain.Defaults()
	newer.DailyGoal = 30
	newer.UpdatedAt = older.UpdatedAt.Add(time.Minute)

	got, ok := domain.Latest(older, newer)
	require.True(t, ok)
	assert.Equal(t, 30, got.DailyGoal)

	tie := newer
	tie.DailyGoal = 99
	got, _ = domain.Latest(newer, tie)
	assert.Equal(t, 30, got.DailyGoal)

	_, ok = domain.Latest()
	assert.False(t, ok)
}
