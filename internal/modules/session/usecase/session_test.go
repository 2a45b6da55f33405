package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionout "studytrack/internal/modules/session/adapter/out"
	"studytrack/internal/modules/session/domain"
	sessiondto "studytrack/internal/modules/session/dto"
	sessionin "studytrack/internal/modules/session/port/in"
	"studytrack/internal/modules/session/service"
	"studytrack/internal/modules/session/usecase"
	"studytrack/internal/platform/clock"
	apperrors "studytrack/internal/platform/errors"
	"studytrack/internal/platform/id"
)

var now = time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

type harness struct {
	uc   sessionin.Usecase
	ext  *service.Repository
	page *service.Repository
}

func newHarness(t *testing.T) harness {
	t.Helper()
	dir := t.TempDir()
	clk := clock.Fixed(now)
	ext := service.NewRepository(domain.BackendExtension, sessionout.NewFileKVStore(filepath.Join(dir, "extension")), clk, 0)
	pageStore, err := sessionout.NewSQLiteKVStore(filepath.Join(dir, "page.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pageStore.Close() })
	page := service.NewRepository(domain.BackendPage, pageStore, clk, 0)
	reconciler := service.NewReconciler(ext, page, nil, nil)
	svc := service.NewSessionService(clk, id.NewMonotonic(clk), ext, reconciler, nil, nil)
	return harness{uc: usecase.NewInteractor(svc, clk), ext: ext, page: page}
}

func TestAddSessionPropagatesToBothBackends(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	rec, err := h.uc.AddSession(ctx, sessiondto.AddSessionInput{Subject: "Quantitative", Duration: 30, Score: domain.IntPtr(40)})
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), rec.Timestamp)
	assert.Equal(t, "Manual", rec.Source)
	assert.True(t, rec.Date.Equal(now))

	for _, repo := range []*service.Repository{h.ext, h.page} {
		got, err := repo.Get(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1, "backend %s", repo.Backend())
		assert.Equal(t, rec.Timestamp, got[0].Timestamp)
	}

	second, err := h.uc.AddSession(ctx, sessiondto.AddSessionInput{Subject: "Verbal", Duration: 45, Date: "2026-02-24"})
	require.NoError(t, err)
	assert.Greater(t, second.Timestamp, rec.Timestamp)

	list, err := h.uc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Quantitative", list[0].Subject)
}

func TestAddSessionRejectsOutOfRangeDurationWithoutMutating(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.uc.AddSession(ctx, sessiondto.AddSessionInput{Subject: "Quantitative", Duration: 700, Date: now.Format(time.RFC3339)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	list, err := h.uc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddSessionRejectsBadInput(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	cases := []sessiondto.AddSessionInput{
		{Subject: "Chemistry", Duration: 30},
		{Subject: "Verbal", Duration: 30, Date: "yesterday-ish"},
		{Subject: "Integrated Reasoning", Duration: 30, Score: domain.IntPtr(9)},
		{Subject: "Verbal", Duration: 30, Source: "Carrier Pigeon"},
	}
	for _, input := range cases {
		_, err := h.uc.AddSession(ctx, input)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), "input %+v: %v", input, err)
	}
}

func TestQuickAddUsesPreset(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec, err := h.uc.QuickAdd(context.Background(), "verbal")
	require.NoError(t, err)
	assert.Equal(t, "Verbal", rec.Subject)
	assert.Equal(t, 45, rec.Duration)

	_, err = h.uc.QuickAdd(context.Background(), "juggling")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Len(t, h.uc.QuickPresets(), 3)
	assert.Equal(t, 210, h.uc.DefaultDuration("Full Practice Test"))
}

func TestClearAllEmptiesBothBackends(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.uc.AddSession(ctx, sessiondto.AddSessionInput{Subject: "Review", Duration: 20})
	require.NoError(t, err)

	out, err := h.uc.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"extension", "page"}, out.Cleared)

	list, err := h.uc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSyncIsNoOpAfterConvergence(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.page.ReplaceAll(ctx, []domain.Session{{
		Timestamp: 42, Date: now.Add(-time.Hour), Subject: domain.SubjectReview, Duration: 15, Source: domain.SourcePWA,
	}}))

	first, err := h.uc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"extension"}, first.Written)
	assert.Equal(t, 1, first.Sessions)

	second, err := h.uc.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, second.Changed)
}

func TestReplaceAllMirrorsOntoEveryBackend(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	records := []sessiondto.SessionRecord{
		{Timestamp: 1, Date: now.Add(-48 * time.Hour), Subject: "Verbal", Duration: 30, Source: "Import"},
		{Timestamp: 2, Date: now.Add(-time.Hour), Subject: "Quantitative", Duration: 30, Source: "Import"},
	}
	require.NoError(t, h.uc.ReplaceAll(ctx, records))

	got, err := h.page.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Timestamp)
}
