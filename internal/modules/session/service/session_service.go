package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"studytrack/internal/modules/session/domain"
	"studytrack/internal/platform/clock"
	apperrors "studytrack/internal/platform/errors"
	"studytrack/internal/platform/id"
	"studytrack/internal/platform/metrics"
)

// SessionService writes through the active surface's repository and lets the
// reconciler carry changes to the other backend.
type SessionService struct {
	clock      clock.Clock
	idGen      id.Generator
	primary    *Repository
	reconciler *Reconciler
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewSessionService(clk clock.Clock, idGen id.Generator, primary *Repository, reconciler *Reconciler, logger *zap.Logger, m *metrics.Metrics) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{clock: clk, idGen: idGen, primary: primary, reconciler: reconciler, logger: logger, metrics: m}
}

// Prepare fills the generated fields of a draft and validates it.
func (s *SessionService) Prepare(draft domain.Session) (domain.Session, error) {
	if draft.Timestamp <= 0 {
		draft.Timestamp = s.idGen.Next()
	}
	if draft.Date.IsZero() {
		draft.Date = s.clock.Now()
	}
	if draft.Source == "" {
		draft.Source = domain.SourceManual
	}
	if err := draft.Validate(); err != nil {
		return domain.Session{}, err
	}
	return draft, nil
}

func (s *SessionService) Add(ctx context.Context, draft domain.Session) (domain.Session, error) {
	generated := draft.Timestamp <= 0
	session, err := s.Prepare(draft)
	if err != nil {
		return domain.Session{}, err
	}
	if generated {
		ts, err := s.freshTimestamp(ctx, session.Timestamp)
		if err != nil {
			return domain.Session{}, err
		}
		session.Timestamp = ts
	}
	if err := s.primary.Add(ctx, session); err != nil {
		return domain.Session{}, err
	}
	s.metrics.SessionAdded()
	s.propagate(ctx)
	return session, nil
}

// freshTimestamp returns candidate unless it is already stored, which another
// process may have done within the same millisecond.
func (s *SessionService) freshTimestamp(ctx context.Context, candidate int64) (int64, error) {
	existing, err := s.primary.Get(ctx)
	if err != nil {
		return 0, err
	}
	taken := domain.Timestamps(existing)
	for ts := candidate; ; ts = s.idGen.Next() {
		if _, dup := taken[ts]; !dup {
			return ts, nil
		}
	}
}

// List returns the reconciled history, newest first.
func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	result, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	return result.Sessions, nil
}

// ReplaceAll replaces the primary list and then mirrors it onto the other
// backends. Only the primary write must succeed.
func (s *SessionService) ReplaceAll(ctx context.Context, sessions []domain.Session) error {
	sorted := append([]domain.Session(nil), sessions...)
	domain.SortByDateDesc(sorted)
	if err := s.primary.ReplaceAll(ctx, sorted); err != nil {
		return err
	}
	for _, repo := range s.reconciler.Repositories() {
		if repo == s.primary {
			continue
		}
		if err := repo.ReplaceAll(ctx, sorted); err != nil {
			s.logger.Warn("mirror replace failed", zap.String("backend", string(repo.Backend())), zap.Error(err))
		}
	}
	return nil
}

// ClearAll empties every configured backend. It fails unless all of them were cleared.
func (s *SessionService) ClearAll(ctx context.Context) ([]domain.Backend, error) {
	var (
		cleared []domain.Backend
		errs    []error
	)
	for _, repo := range s.reconciler.Repositories() {
		if err := repo.Clear(ctx); err != nil {
			errs = append(errs, err)
			continue
		}
		cleared = append(cleared, repo.Backend())
	}
	if len(errs) > 0 {
		return cleared, fmt.Errorf("%w: clear incomplete: %w", apperrors.ErrStorage, errors.Join(errs...))
	}
	return cleared, nil
}

func (s *SessionService) Sync(ctx context.Context) (ReconcileResult, error) {
	return s.reconciler.Reconcile(ctx)
}

func (s *SessionService) propagate(ctx context.Context) {
	if _, err := s.reconciler.Reconcile(ctx); err != nil {
		s.logger.Warn("reconciliation after write failed", zap.Error(err))
	}
}
