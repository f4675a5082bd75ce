// Package ledger holds the process-local TTL ledgers that correlate
// synchronous enrichment calls with asynchronous webhook deliveries.
package ledger

import (
	"sync"
	"time"
)

// DefaultRetention is how long an entry stays readable after it was written.
const DefaultRetention = time.Hour

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Ledger is a keyed store whose entries expire a fixed time after they were
// written. Expired entries are reported absent by every read, whether or not
// Sweep has run.
type Ledger[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	// Update applies fn to a live entry without changing its write time.
	Update(key string, fn func(V) V) bool
	Delete(key string)
	// Sweep removes every expired entry and returns how many were removed.
	Sweep() int
	// Range visits live entries until fn returns false.
	Range(fn func(key string, value V) bool)
	Len() int
}

type entry[V any] struct {
	value     V
	writtenAt time.Time
}

// Memory is the mutex-guarded in-memory Ledger.
type Memory[V any] struct {
	name string
	ttl  time.Duration
	now  Clock

	mu      sync.Mutex
	entries map[string]entry[V]
}

var _ Ledger[struct{}] = (*Memory[struct{}])(nil)

// NewMemory creates an in-memory ledger. A zero ttl uses DefaultRetention and
// a nil clock uses time.Now. The name labels its metrics.
func NewMemory[V any](name string, ttl time.Duration, now Clock) *Memory[V] {
	if ttl <= 0 {
		ttl = DefaultRetention
	}
	if now == nil {
		now = time.Now
	}
	return &Memory[V]{
		name:    name,
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[V]),
	}
}

// Name returns the ledger's metrics label.
func (m *Memory[V]) Name() string { return m.name }

func (m *Memory[V]) expired(e entry[V], now time.Time) bool {
	return now.Sub(e.writtenAt) >= m.ttl
}

// Get returns the live value for key. An expired entry is evicted.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if m.expired(e, m.now()) {
		delete(m.entries, key)
		m.observe()
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set writes value under key, replacing any previous entry and resetting its
// age.
func (m *Memory[V]) Set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry[V]{value: value, writtenAt: m.now()}
	m.observe()
}

// Update rewrites a live entry in place. It reports false if key is absent
// or expired.
func (m *Memory[V]) Update(key string, fn func(V) V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return false
	}
	if m.expired(e, m.now()) {
		delete(m.entries, key)
		m.observe()
		return false
	}
	e.value = fn(e.value)
	m.entries[key] = e
	return true
}

// Delete removes key.
func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	m.observe()
}

// Sweep removes all expired entries.
func (m *Memory[V]) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if m.expired(e, now) {
			delete(m.entries, k)
			removed++
		}
	}
	if removed > 0 {
		sweptTotal.WithLabelValues(m.name).Add(float64(removed))
	}
	m.observe()
	return removed
}

// Range calls fn for each live entry. fn must not call back into the ledger.
func (m *Memory[V]) Range(fn func(key string, value V) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, e := range m.entries {
		if m.expired(e, now) {
			continue
		}
		if !fn(k, e.value) {
			return
		}
	}
}

// Len counts live entries.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for _, e := range m.entries {
		if !m.expired(e, now) {
			n++
		}
	}
	return n
}

// observe publishes the stored entry count. Callers hold m.mu.
func (m *Memory[V]) observe() {
	entriesGauge.WithLabelValues(m.name).Set(float64(len(m.entries)))
}
