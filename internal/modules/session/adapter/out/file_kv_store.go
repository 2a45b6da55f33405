package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	sessionout "studytrack/internal/modules/session/port/out"
	apperrors "studytrack/internal/platform/errors"
)

const fileExt = ".json"

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// FileKVStore keeps one file per key under dir. Writes go to a temp file in
// the same directory and are renamed into place.
type FileKVStore struct {
	dir string
}

func NewFileKVStore(dir string) sessionout.KVStore {
	return &FileKVStore{dir: dir}
}

// path maps a key onto a portable file name, e.g. gmat_study_sessions
// becomes gmat-study-sessions.json.
func (s *FileKVStore) path(key string) string {
	name := strings.Trim(unsafeKeyChars.ReplaceAllString(strings.ToLower(key), "-"), "-")
	if name == "" {
		name = "_"
	}
	return filepath.Join(s.dir, name+fileExt)
}

func (s *FileKVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	payload, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read %q: %w", apperrors.ErrStorage, key, err)
	}
	return payload, true, nil
}

func (s *FileKVStore) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create store dir: %w", apperrors.ErrStorage, err)
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", apperrors.ErrStorage, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write %q: %w", apperrors.ErrStorage, key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync %q: %w", apperrors.ErrStorage, key, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close %q: %w", apperrors.ErrStorage, key, err)
	}
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		cleanup()
		return fmt.Errorf("%w: replace %q: %w", apperrors.ErrStorage, key, err)
	}
	return nil
}

func (s *FileKVStore) Remove(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove %q: %w", apperrors.ErrStorage, key, err)
	}
	return nil
}

func (s *FileKVStore) Clear(_ context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: list store dir: %w", apperrors.ErrStorage, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: clear %s: %w", apperrors.ErrStorage, entry.Name(), err)
		}
	}
	return nil
}
