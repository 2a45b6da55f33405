package out

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	sessionout "studytrack/internal/modules/session/port/out"
	apperrors "studytrack/internal/platform/errors"
	"studytrack/internal/platform/metrics"
)

// BreakerKVStore fails fast once a backend has failed repeatedly, so callers
// never wait on a store that is known to be down.
type BreakerKVStore struct {
	name    string
	next    sessionout.KVStore
	cb      *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
}

type getResult struct {
	value []byte
	found bool
}

func NewBreakerKVStore(name string, next sessionout.KVStore, failures uint32, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) sessionout.KVStore {
	if failures == 0 {
		failures = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("backend breaker state changed",
				zap.String("backend", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &BreakerKVStore{name: name, next: next, cb: cb, metrics: m}
}

func (s *BreakerKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		value, found, err := s.next.Get(ctx, key)
		return getResult{value: value, found: found}, err
	})
	if err != nil {
		return nil, false, s.translate("get", err)
	}
	res := out.(getResult)
	return res.value, res.found, nil
}

func (s *BreakerKVStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Set(ctx, key, value)
	})
	return s.translate("set", err)
}

func (s *BreakerKVStore) Remove(ctx context.Context, key string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Remove(ctx, key)
	})
	return s.translate("remove", err)
}

func (s *BreakerKVStore) Clear(ctx context.Context) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Clear(ctx)
	})
	return s.translate("clear", err)
}

func (s *BreakerKVStore) translate(op string, err error) error {
	if err == nil {
		return nil
	}
	s.metrics.BackendFailed(s.name, op)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrBackendUnavailable, s.name, err)
	}
	return err
}
