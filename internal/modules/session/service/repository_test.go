package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studytrack/internal/modules/session/domain"
	"studytrack/internal/modules/session/service"
	"studytrack/internal/platform/clock"
	apperrors "studytrack/internal/platform/errors"
)

func TestRepositoryAddPrependsAndRejectsDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newRepo(domain.BackendPage, newMemStore(), clock.Fixed(base))

	require.NoError(t, repo.Add(ctx, session(1, 3, domain.SubjectVerbal, 40)))
	require.NoError(t, repo.Add(ctx, session(2, 1, domain.SubjectQuantitative, 30)))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Timestamp)
	assert.Equal(t, int64(1), got[1].Timestamp)

	err = repo.Add(ctx, session(1, 0, domain.SubjectReview, 20))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestRepositoryRejectsInvalidSessionWithoutWriting(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	repo := newRepo(domain.BackendExtension, store, clock.Fixed(base))

	err := repo.Add(context.Background(), session(1, 0, domain.SubjectQuantitative, 700))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Zero(t, store.setCount())
}

func TestRepositoryEnforcesQuota(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := service.NewRepository(domain.BackendPage, newMemStore(), clock.Fixed(base), 2)
	require.NoError(t, repo.Add(ctx, session(1, 0, domain.SubjectVerbal, 30)))
	require.NoError(t, repo.Add(ctx, session(2, 0, domain.SubjectVerbal, 30)))

	err := repo.Add(ctx, session(3, 0, domain.SubjectVerbal, 30))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))

	err = repo.ReplaceAll(ctx, []domain.Session{
		session(1, 0, domain.SubjectVerbal, 30),
		session(2, 0, domain.SubjectVerbal, 30),
		session(3, 0, domain.SubjectVerbal, 30),
	})
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
}

func TestRepositoryReplaceAllIsAllOrNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	repo := newRepo(domain.BackendPage, store, clock.Fixed(base))
	require.NoError(t, repo.Add(ctx, session(1, 0, domain.SubjectVerbal, 30)))

	err := repo.ReplaceAll(ctx, []domain.Session{
		session(5, 0, domain.SubjectVerbal, 30),
		session(6, 0, domain.SubjectVerbal, 0),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	store.failSet = true
	err = repo.ReplaceAll(ctx, []domain.Session{session(7, 0, domain.SubjectVerbal, 30)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
	store.failSet = false

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].Timestamp)
}

func TestRepositoryClearKeepsSettings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	repo := newRepo(domain.BackendExtension, store, clock.Fixed(base))
	require.NoError(t, repo.Add(ctx, session(1, 0, domain.SubjectVerbal, 30)))
	require.NoError(t, store.Set(ctx, domain.KeyStreak, []byte("1")))
	require.NoError(t, store.Set(ctx, domain.KeySettings, []byte("{}")))

	require.NoError(t, repo.Clear(ctx))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	_, found, _ := store.Get(ctx, domain.KeyStreak)
	assert.False(t, found)
	_, found, _ = store.Get(ctx, domain.KeySettings)
	assert.True(t, found)
}

func TestRepositoryReadsLegacyArray(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Set(ctx, domain.KeySessions, []byte(`[
		{"timestamp": 1700000000000, "date": "2023-11-14T22:13:20.000Z", "subject": "Verbal", "duration": 45, "score": null, "source": "Legacy"}
	]`)))
	repo := newRepo(domain.BackendExtension, store, clock.Fixed(base))

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Sessions, 1)
	assert.True(t, snap.WrittenAt.IsZero())
	assert.Equal(t, domain.SubjectVerbal, snap.Sessions[0].Subject)
}

func TestRepositoryNormalizesLegacyEntries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Set(ctx, domain.KeySessions, []byte(`[
		{"timestamp": 1700000000000, "date": "2023-11-14T22:13:20.000Z", "subject": "Verbal", "duration": 45, "score": null},
		{"id": 1, "date": "2023-11-15T08:00:00.000Z", "subject": "Quantitative", "duration": 30},
		{"id": "2", "date": "2023-11-16T08:00:00.000Z", "subject": "Review", "duration": 20},
		{"date": "2023-11-17T08:00:00.000Z", "subject": "Error Log", "duration": 15},
		{"id": 2, "date": "2023-11-18T08:00:00.000Z", "subject": "Verbal", "duration": 25},
		{"id": 9, "date": "2023-11-19T08:00:00.000Z", "subject": "Chemistry", "duration": 25},
		"not a session"
	]`)))
	repo := newRepo(domain.BackendExtension, store, clock.Fixed(base))

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Sessions, 5)
	assert.Equal(t, 2, snap.Dropped)

	keys := map[int64]struct{}{}
	for _, s := range snap.Sessions {
		require.NoError(t, s.Validate())
		assert.Equal(t, domain.SourceLegacy, s.Source)
		keys[s.Timestamp] = struct{}{}
	}
	assert.Len(t, keys, 5, "every legacy entry keeps its own key")
	assert.Equal(t, int64(1700000000000), snap.Sessions[0].Timestamp)
	assert.Equal(t, int64(1), snap.Sessions[1].Timestamp)
	assert.Equal(t, int64(2), snap.Sessions[2].Timestamp)
	keyless := time.Date(2023, 11, 17, 8, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, keyless, snap.Sessions[3].Timestamp)

	again, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, timestamps(snap.Sessions), timestamps(again.Sessions))

	next := append([]domain.Session(nil), snap.Sessions...)
	next = append(next, session(3, 0, domain.SubjectQuantitative, 30))
	require.NoError(t, repo.ReplaceAll(ctx, next))
}

func TestRepositoryLastWrittenAndCorruptDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	repo := newRepo(domain.BackendPage, store, clock.Fixed(base))
	require.NoError(t, repo.Add(ctx, session(1, 0, domain.SubjectVerbal, 30)))

	written, err := repo.LastWritten(ctx)
	require.NoError(t, err)
	assert.True(t, written.Equal(base))

	require.NoError(t, store.Set(ctx, domain.KeySessions, []byte(`{"sessions": 12}`)))
	_, err = repo.Get(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
}
