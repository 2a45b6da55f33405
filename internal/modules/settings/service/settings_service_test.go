package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessiondomain "studytrack/internal/modules/session/domain"
	"studytrack/internal/modules/settings/domain"
	settingsout "studytrack/internal/modules/settings/port/out"
	"studytrack/internal/modules/settings/service"
	"studytrack/internal/platform/clock"
	apperrors "studytrack/internal/platform/errors"
)

type mapStore struct {
	data    map[string][]byte
	failGet bool
	failSet bool
}

func newMapStore() *mapStore { return &mapStore{data: map[string][]byte{}} }

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.failGet {
		return nil, false, errors.New("unavailable")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte) error {
	if m.failSet {
		return errors.New("quota exceeded")
	}
	m.data[key] = value
	return nil
}

var now = time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

func newService(stores ...*mapStore) *service.SettingsService {
	named := make([]settingsout.NamedStore, 0, len(stores))
	for i, s := range stores {
		named = append(named, settingsout.NamedStore{Name: []string{"extension", "page"}[i], Store: s})
	}
	return service.NewSettingsService(named, clock.Fixed(now), nil)
}

func TestGetReturnsDefaultsWhenNothingStored(t *testing.T) {
	t.Parallel()
	got, err := newService(newMapStore(), newMapStore()).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Defaults(), got)
}

func TestGetFillsMissingFieldsAndPicksNewest(t *testing.T) {
	t.Parallel()
	ext, page := newMapStore(), newMapStore()
	ext.data[sessiondomain.KeySettings] = []byte(`{"theme":"dark","updatedAt":"2026-03-01T00:00:00Z"}`)
	page.data[sessiondomain.KeySettings] = []byte(`{"dailyGoal":120,"updatedAt":"2026-03-02T00:00:00Z"}`)

	got, err := newService(ext, page).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, got.DailyGoal)
	assert.Equal(t, domain.ThemeLight, got.Theme)
	assert.Equal(t, "19:00", got.ReminderTime)
}

func TestUpdateWritesEveryBackendAndStamps(t *testing.T) {
	t.Parallel()
	ext, page := newMapStore(), newMapStore()
	svc := newService(ext, page)
	goal := 90
	got, err := svc.Update(context.Background(), domain.Patch{DailyGoal: &goal})
	require.NoError(t, err)
	assert.Equal(t, 90, got.DailyGoal)
	assert.True(t, got.UpdatedAt.Equal(now))
	assert.Contains(t, string(ext.data[sessiondomain.KeySettings]), `"dailyGoal":90`)
	assert.Equal(t, ext.data[sessiondomain.KeySettings], page.data[sessiondomain.KeySettings])
}

func TestUpdateToleratesOneFailedBackend(t *testing.T) {
	t.Parallel()
	ext, page := newMapStore(), newMapStore()
	page.failSet = true
	svc := newService(ext, page)
	theme := domain.ThemeDark
	_, err := svc.Update(context.Background(), domain.Patch{Theme: &theme})
	require.NoError(t, err)

	ext.failSet = true
	_, err = svc.Update(context.Background(), domain.Patch{Theme: &theme})
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
}

func TestUpdateRejectsInvalidPatchWithoutWriting(t *testing.T) {
	t.Parallel()
	ext := newMapStore()
	bad := "25:99"
	_, err := newService(ext).Update(context.Background(), domain.Patch{ReminderTime: &bad})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Empty(t, ext.data)
}

func TestGetFailsOnlyWhenEveryBackendFails(t *testing.T) {
	t.Parallel()
	ext, page := newMapStore(), newMapStore()
	ext.failGet = true
	_, err := newService(ext, page).Get(context.Background())
	require.NoError(t, err)

	page.failGet = true
	_, err = newService(ext, page).Get(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
}
