package id

import (
	"sync"

	"studytrack/internal/platform/clock"
)

// Generator creates session timestamps used as dedup keys.
type Generator interface {
	Next() int64
}

// Monotonic hands out millisecond timestamps that never repeat within a process,
// even when the clock stalls or steps backwards.
type Monotonic struct {
	clock clock.Clock
	mu    sync.Mutex
	last  int64
}

func NewMonotonic(clk clock.Clock) *Monotonic {
	return &Monotonic{clock: clk}
}

func (m *Monotonic) Next() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.clock.Now().UnixMilli()
	if next <= m.last {
		next = m.last + 1
	}
	m.last = next
	return next
}
