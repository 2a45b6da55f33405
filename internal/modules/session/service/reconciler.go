package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"studytrack/internal/modules/session/domain"
	apperrors "studytrack/internal/platform/errors"
	"studytrack/internal/platform/metrics"
)

// ReconcileResult describes one reconciliation run.
type ReconcileResult struct {
	Sessions    []domain.Session
	Written     []domain.Backend
	Stale       []domain.Backend
	Unavailable []domain.Backend
	Changed     bool
}

// Reconciler keeps the extension and page repositories converged. There is no
// transaction across the two; each side is written independently.
type Reconciler struct {
	extension *Repository
	page      *Repository
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewReconciler accepts nil for a backend that is not configured.
func NewReconciler(extension, page *Repository, logger *zap.Logger, m *metrics.Metrics) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{extension: extension, page: page, logger: logger, metrics: m}
}

// Repositories returns the configured repositories, extension first.
func (r *Reconciler) Repositories() []*Repository {
	out := make([]*Repository, 0, 2)
	if r.extension != nil {
		out = append(out, r.extension)
	}
	if r.page != nil {
		out = append(out, r.page)
	}
	return out
}

type side struct {
	repo *Repository
	snap domain.Snapshot
	ok   bool
}

func (r *Reconciler) load(ctx context.Context, repo *Repository, backend domain.Backend, result *ReconcileResult) side {
	if repo == nil {
		result.Unavailable = append(result.Unavailable, backend)
		return side{}
	}
	snap, err := repo.Load(ctx)
	if err != nil {
		r.logger.Warn("backend unavailable for reconciliation", zap.String("backend", string(backend)), zap.Error(err))
		result.Unavailable = append(result.Unavailable, backend)
		return side{repo: repo}
	}
	if snap.Dropped > 0 {
		r.logger.Warn("unreadable legacy sessions skipped", zap.String("backend", string(backend)), zap.Int("dropped", snap.Dropped))
	}
	return side{repo: repo, snap: snap, ok: true}
}

// Reconcile merges both sides by timestamp and writes the merged set back to
// every side whose stored content differs from it. A second run with no new
// writes in between performs no writes.
func (r *Reconciler) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult
	ext := r.load(ctx, r.extension, domain.BackendExtension, &result)
	page := r.load(ctx, r.page, domain.BackendPage, &result)

	switch {
	case !ext.ok && !page.ok:
		r.metrics.Reconciled("failed", 0)
		return ReconcileResult{}, fmt.Errorf("%w: no session backend available", apperrors.ErrStorage)
	case !ext.ok || !page.ok:
		only := ext
		if !ext.ok {
			only = page
		}
		sessions := append([]domain.Session(nil), only.snap.Sessions...)
		domain.SortByDateDesc(sessions)
		result.Sessions = sessions
		r.metrics.Reconciled("degraded", len(sessions))
		return result, nil
	}

	merged := domain.Merge(ext.snap, page.snap)
	result.Sessions = merged

	var writeErrs []error
	attempted := 0
	for _, s := range []side{ext, page} {
		if domain.Equal(s.snap.Sessions, merged) {
			continue
		}
		attempted++
		if err := s.repo.persist(ctx, merged); err != nil {
			backend := s.repo.Backend()
			r.logger.Warn("reconciliation write failed", zap.String("backend", string(backend)), zap.Error(err))
			result.Stale = append(result.Stale, backend)
			writeErrs = append(writeErrs, err)
			continue
		}
		result.Written = append(result.Written, s.repo.Backend())
	}
	result.Changed = len(result.Written) > 0

	if attempted > 0 && len(result.Written) == 0 {
		r.metrics.Reconciled("failed", 0)
		return ReconcileResult{}, fmt.Errorf("%w: reconciliation wrote no backend: %w", apperrors.ErrStorage, errors.Join(writeErrs...))
	}

	outcome := "noop"
	switch {
	case len(result.Stale) > 0:
		outcome = "degraded"
	case result.Changed:
		outcome = "merged"
	}
	r.logger.Debug("reconciled sessions",
		zap.Int("sessions", len(merged)),
		zap.Int("written", len(result.Written)),
		zap.String("outcome", outcome))
	r.metrics.Reconciled(outcome, len(merged))
	return result, nil
}
