package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	sessiondomain "studytrack/internal/modules/session/domain"
	"studytrack/internal/modules/settings/domain"
	settingsout "studytrack/internal/modules/settings/port/out"
	"studytrack/internal/platform/clock"
	apperrors "studytrack/internal/platform/errors"
)

type SettingsService struct {
	stores []settingsout.NamedStore
	clock  clock.Clock
	logger *zap.Logger
}

func NewSettingsService(stores []settingsout.NamedStore, clk clock.Clock, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{stores: stores, clock: clk, logger: logger}
}

// Get returns the newest record across all readable backends, with missing
// fields filled from the defaults.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	var (
		candidates []domain.Settings
		failures   []error
	)
	for _, named := range s.stores {
		raw, found, err := named.Store.Get(ctx, sessiondomain.KeySettings)
		if err != nil {
			s.logger.Warn("settings read failed", zap.String("backend", named.Name), zap.Error(err))
			failures = append(failures, err)
			continue
		}
		if !found {
			continue
		}
		current := domain.Defaults()
		if err := json.Unmarshal(raw, &current); err != nil {
			s.logger.Warn("settings record unreadable", zap.String("backend", named.Name), zap.Error(err))
			continue
		}
		candidates = append(candidates, current)
	}
	if len(s.stores) > 0 && len(failures) == len(s.stores) {
		return domain.Settings{}, fmt.Errorf("%w: settings unreadable: %w", apperrors.ErrStorage, errors.Join(failures...))
	}
	latest, ok := domain.Latest(candidates...)
	if !ok {
		return domain.Defaults(), nil
	}
	return latest, nil
}

// Update applies patch over the current settings and writes the result to
// every backend. At least one write must succeed.
func (s *SettingsService) Update(ctx context.Context, patch domain.Patch) (domain.Settings, error) {
	if len(s.stores) == 0 {
		return domain.Settings{}, fmt.Errorf("%w: no settings backend configured", apperrors.ErrStorage)
	}
	current, err := s.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	next := current.Apply(patch)
	if err := next.Validate(); err != nil {
		return domain.Settings{}, err
	}
	next.UpdatedAt = s.clock.Now().UTC()
	raw, err := json.Marshal(next)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: encode settings: %w", apperrors.ErrStorage, err)
	}
	var failures []error
	for _, named := range s.stores {
		if err := named.Store.Set(ctx, sessiondomain.KeySettings, raw); err != nil {
			s.logger.Warn("settings write failed", zap.String("backend", named.Name), zap.Error(err))
			failures = append(failures, err)
		}
	}
	if len(failures) == len(s.stores) {
		return domain.Settings{}, fmt.Errorf("%w: settings not saved: %w", apperrors.ErrStorage, errors.Join(failures...))
	}
	return next, nil
}
