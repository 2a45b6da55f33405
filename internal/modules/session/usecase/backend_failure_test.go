package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionout "studytrack/internal/modules/session/adapter/out"
	"studytrack/internal/modules/session/domain"
	sessiondto "studytrack/internal/modules/session/dto"
	"studytrack/internal/modules/session/service"
	"studytrack/internal/modules/session/usecase"
	"studytrack/internal/platform/clock"
	apperrors "studytrack/internal/platform/errors"
	"studytrack/internal/platform/id"
	"studytrack/internal/platform/metrics"
)

type downStore struct{}

func (downStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk unavailable")
}
func (downStore) Set(context.Context, string, []byte) error { return errors.New("disk unavailable") }
func (downStore) Remove(context.Context, string) error      { return errors.New("disk unavailable") }
func (downStore) Clear(context.Context) error               { return errors.New("disk unavailable") }

func TestAddSessionReportsValidationBeforeStorage(t *testing.T) {
	t.Parallel()
	clk := clock.Fixed(now)
	primary := service.NewRepository(domain.BackendExtension, downStore{}, clk, 0)
	svc := service.NewSessionService(clk, id.NewMonotonic(clk), primary, service.NewReconciler(primary, nil, nil, nil), nil, nil)
	uc := usecase.NewInteractor(svc, clk)

	_, err := uc.AddSession(context.Background(), sessiondto.AddSessionInput{Subject: "Quantitative", Duration: 700})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation), "got %v", err)
	assert.False(t, apperrors.IsStorage(err))

	_, err = uc.AddSession(context.Background(), sessiondto.AddSessionInput{Subject: "Quantitative", Duration: 30})
	assert.True(t, apperrors.IsStorage(err), "got %v", err)
}

func TestBackendFailureIsCountedOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := clock.Fixed(now)
	m := metrics.New()
	ext := service.NewRepository(domain.BackendExtension, sessionout.NewFileKVStore(t.TempDir()), clk, 0)
	page := service.NewRepository(domain.BackendPage,
		sessionout.NewBreakerKVStore(string(domain.BackendPage), downStore{}, 5, time.Minute, nil, m), clk, 0)
	svc := service.NewSessionService(clk, id.NewMonotonic(clk), ext, service.NewReconciler(ext, page, nil, m), nil, m)
	uc := usecase.NewInteractor(svc, clk)

	require.NoError(t, uc.ReplaceAll(ctx, []sessiondto.SessionRecord{
		{Timestamp: 1, Date: now.Add(-time.Hour), Subject: "Verbal", Duration: 30, Source: "Import"},
	}))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendFailures.WithLabelValues("page", "set")))

	_, err := uc.ClearAll(ctx)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendFailures.WithLabelValues("page", "remove")))
}

func TestLegacyArrayWithoutSourceOrTimestampIsKeptAndImportable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	clk := clock.Fixed(now)
	extStore := sessionout.NewFileKVStore(filepath.Join(dir, "extension"))
	require.NoError(t, extStore.Set(ctx, domain.KeySessions, []byte(`[
		{"id": 1, "date": "2026-02-20T09:00:00.000Z", "subject": "Verbal", "duration": 45, "score": null},
		{"id": 2, "date": "2026-02-21T09:00:00.000Z", "subject": "Quantitative", "duration": 30},
		{"date": "2026-02-22T09:00:00.000Z", "subject": "Review", "duration": 20}
	]`)))
	pageStore, err := sessionout.NewSQLiteKVStore(filepath.Join(dir, "page.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pageStore.Close() })

	ext := service.NewRepository(domain.BackendExtension, extStore, clk, 0)
	page := service.NewRepository(domain.BackendPage, pageStore, clk, 0)
	svc := service.NewSessionService(clk, id.NewMonotonic(clk), ext, service.NewReconciler(ext, page, nil, nil), nil, nil)
	uc := usecase.NewInteractor(svc, clk)

	list, err := uc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, rec := range list {
		assert.Equal(t, "Legacy", rec.Source)
		assert.Positive(t, rec.Timestamp)
	}

	stored, err := page.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	merged := append(list, sessiondto.SessionRecord{
		Timestamp: now.UnixMilli(), Date: now, Subject: "Quantitative", Duration: 30, Source: "Import",
	})
	require.NoError(t, uc.ReplaceAll(ctx, merged))
	after, err := uc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 4)
}
