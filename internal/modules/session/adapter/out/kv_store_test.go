package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionout "studytrack/internal/modules/session/adapter/out"
	port "studytrack/internal/modules/session/port/out"
	apperrors "studytrack/internal/platform/errors"
	"studytrack/internal/platform/metrics"
)

func exerciseStore(t *testing.T, store port.KVStore) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "gmat_study_sessions")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "gmat_study_sessions", []byte(`[1]`)))
	require.NoError(t, store.Set(ctx, "gmat_study_sessions", []byte(`[1,2]`)))
	require.NoError(t, store.Set(ctx, "gmat_study_streak", []byte(`3`)))

	value, found, err := store.Get(ctx, "gmat_study_sessions")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[1,2]`, string(value))

	require.NoError(t, store.Remove(ctx, "gmat_study_streak"))
	require.NoError(t, store.Remove(ctx, "gmat_study_streak"), "removing an absent key is not an error")
	_, found, err = store.Get(ctx, "gmat_study_streak")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Clear(ctx))
	_, found, err = store.Get(ctx, "gmat_study_sessions")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileKVStoreRoundTrip(t *testing.T) {
	t.Parallel()
	exerciseStore(t, sessionout.NewFileKVStore(filepath.Join(t.TempDir(), "extension")))
}

func TestFileKVStoreLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := sessionout.NewFileKVStore(dir)
	require.NoError(t, store.Set(context.Background(), "gmat_study_sessions", []byte(`[]`)))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gmat-study-sessions.json", entries[0].Name())
}

func TestSQLiteKVStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store, err := sessionout.NewSQLiteKVStore(filepath.Join(t.TempDir(), "page", "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestSQLiteKVStoreWrapsDriverErrorsAsStorage(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO kv_store").WillReturnError(errors.New("database or disk is full"))
	mock.ExpectQuery("SELECT value FROM kv_store").
		WithArgs("gmat_study_sessions").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

	store, err := sessionout.NewSQLiteKVStoreWithDB(db)
	require.NoError(t, err)

	err = store.Set(context.Background(), "gmat_study_sessions", []byte(`[1]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))

	value, found, err := store.Get(context.Background(), "gmat_study_sessions")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type brokenStore struct{ calls int }

func (b *brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	b.calls++
	return nil, false, errors.New("quota exceeded")
}
func (b *brokenStore) Set(context.Context, string, []byte) error {
	b.calls++
	return errors.New("quota exceeded")
}
func (b *brokenStore) Remove(context.Context, string) error { b.calls++; return nil }
func (b *brokenStore) Clear(context.Context) error          { b.calls++; return nil }

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()
	inner := &brokenStore{}
	m := metrics.New()
	store := sessionout.NewBreakerKVStore("page", inner, 2, time.Minute, nil, m)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := store.Set(ctx, "k", []byte("v"))
		require.Error(t, err)
		assert.False(t, errors.Is(err, apperrors.ErrBackendUnavailable))
	}
	err := store.Set(ctx, "k", []byte("v"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBackendUnavailable))
	assert.True(t, apperrors.IsStorage(err))
	assert.Equal(t, 2, inner.calls, "open breaker must not reach the backend")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BackendFailures.WithLabelValues("page", "set")))
}

func TestBreakerPassesThroughHealthyStore(t *testing.T) {
	t.Parallel()
	store := sessionout.NewBreakerKVStore("extension", sessionout.NewFileKVStore(t.TempDir()), 3, time.Minute, nil, nil)
	exerciseStore(t, store)
}
