package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"studytrack/internal/modules/session/domain"
	"studytrack/internal/modules/session/service"
	"studytrack/internal/platform/clock"
)

var errInjected = errors.New("injected failure")

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	failGet bool
	failSet bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, errInjected
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errInjected
	}
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string][]byte{}
	return nil
}

func (m *memStore) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

var base = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

func session(ts int64, daysAgo int, subject domain.Subject, minutes int) domain.Session {
	return domain.Session{
		Timestamp: ts,
		Date:      base.AddDate(0, 0, -daysAgo),
		Subject:   subject,
		Duration:  minutes,
		Source:    domain.SourceManual,
	}
}

func newRepo(backend domain.Backend, store *memStore, clk clock.Clock) *service.Repository {
	return service.NewRepository(backend, store, clk, 0)
}
