package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studytrack/internal/modules/session/domain"
	sessionout "studytrack/internal/modules/session/port/out"
	"studytrack/internal/platform/clock"
	apperrors "studytrack/internal/platform/errors"
)

// Repository persists one backend's session list under domain.KeySessions.
type Repository struct {
	backend     domain.Backend
	store       sessionout.KVStore
	clock       clock.Clock
	maxSessions int
}

type envelope struct {
	WrittenAt time.Time        `json:"written_at"`
	Sessions  []domain.Session `json:"sessions"`
}

// NewRepository builds a repository. maxSessions <= 0 disables the quota.
func NewRepository(backend domain.Backend, store sessionout.KVStore, clk clock.Clock, maxSessions int) *Repository {
	return &Repository{backend: backend, store: store, clock: clk, maxSessions: maxSessions}
}

func (r *Repository) Backend() domain.Backend {
	return r.backend
}

// Load returns the persisted sessions together with the instant they were written.
func (r *Repository) Load(ctx context.Context) (domain.Snapshot, error) {
	raw, found, err := r.store.Get(ctx, domain.KeySessions)
	if err != nil {
		return domain.Snapshot{}, r.storageErr("read sessions", err)
	}
	if !found {
		return domain.Snapshot{}, nil
	}
	return decodeSnapshot(raw, r.clock.Now().Location())
}

func (r *Repository) Get(ctx context.Context) ([]domain.Session, error) {
	snap, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Sessions, nil
}

func (r *Repository) LastWritten(ctx context.Context) (time.Time, error) {
	snap, err := r.Load(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return snap.WrittenAt, nil
}

// Add validates s and prepends it to the stored list.
func (r *Repository) Add(ctx context.Context, s domain.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	current, err := r.Get(ctx)
	if err != nil {
		return err
	}
	if r.maxSessions > 0 && len(current) >= r.maxSessions {
		return fmt.Errorf("%w: %s: session quota of %d reached", apperrors.ErrStorage, r.backend, r.maxSessions)
	}
	for _, existing := range current {
		if existing.Timestamp == s.Timestamp {
			return fmt.Errorf("%w: duplicate timestamp %d", apperrors.ErrValidation, s.Timestamp)
		}
	}
	next := make([]domain.Session, 0, len(current)+1)
	next = append(next, s)
	next = append(next, current...)
	return r.persist(ctx, next)
}

// ReplaceAll swaps the whole list in one write; on failure the previous list stays intact.
func (r *Repository) ReplaceAll(ctx context.Context, sessions []domain.Session) error {
	seen := make(map[int64]struct{}, len(sessions))
	for _, s := range sessions {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := seen[s.Timestamp]; dup {
			return fmt.Errorf("%w: duplicate timestamp %d", apperrors.ErrValidation, s.Timestamp)
		}
		seen[s.Timestamp] = struct{}{}
	}
	if r.maxSessions > 0 && len(sessions) > r.maxSessions {
		return fmt.Errorf("%w: %s: %d sessions exceed quota of %d", apperrors.ErrStorage, r.backend, len(sessions), r.maxSessions)
	}
	return r.persist(ctx, sessions)
}

// Clear drops the sessions and the cached streak. Settings are kept.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, domain.KeySessions); err != nil {
		return r.storageErr("clear sessions", err)
	}
	if err := r.store.Remove(ctx, domain.KeyStreak); err != nil {
		return r.storageErr("clear streak", err)
	}
	return nil
}

func (r *Repository) persist(ctx context.Context, sessions []domain.Session) error {
	if sessions == nil {
		sessions = []domain.Session{}
	}
	raw, err := json.Marshal(envelope{WrittenAt: r.clock.Now().UTC(), Sessions: sessions})
	if err != nil {
		return r.storageErr("encode sessions", err)
	}
	if err := r.store.Set(ctx, domain.KeySessions, raw); err != nil {
		return r.storageErr("write sessions", err)
	}
	return nil
}

func (r *Repository) storageErr(op string, err error) error {
	if apperrors.IsStorage(err) {
		return fmt.Errorf("%s %s: %w", r.backend, op, err)
	}
	return fmt.Errorf("%w: %s %s: %w", apperrors.ErrStorage, r.backend, op, err)
}

// decodeSnapshot accepts the envelope layout and the legacy bare array.
// Legacy entries are normalized; the ones that cannot be are counted in Dropped.
func decodeSnapshot(raw []byte, loc *time.Location) (domain.Snapshot, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return domain.Snapshot{}, nil
	}
	if trimmed[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return domain.Snapshot{}, fmt.Errorf("%w: decode legacy sessions: %w", apperrors.ErrStorage, err)
		}
		records := make([]domain.Record, 0, len(entries))
		unreadable := 0
		for _, entry := range entries {
			var rec domain.Record
			if err := json.Unmarshal(entry, &rec); err != nil {
				unreadable++
				continue
			}
			records = append(records, rec)
		}
		sessions, dropped := domain.NormalizeLegacy(records, loc)
		return domain.Snapshot{Sessions: sessions, Dropped: dropped + unreadable}, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: decode sessions: %w", apperrors.ErrStorage, err)
	}
	return domain.Snapshot{Sessions: env.Sessions, WrittenAt: env.WrittenAt}, nil
}
