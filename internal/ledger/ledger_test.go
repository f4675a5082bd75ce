package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemory_ExpiredAbsentWithoutSweep(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory[string]("test", time.Hour, clock.Now)

	m.Set("a", "one")
	clock.Advance(59 * time.Minute)
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "one", v)

	clock.Advance(time.Minute)
	_, ok = m.Get("a")
	assert.False(t, ok, "entry at exactly the retention window must be absent")
	assert.Equal(t, 0, m.Len())
}

func TestMemory_SetResetsAge(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory[int]("test", time.Hour, clock.Now)

	m.Set("k", 1)
	clock.Advance(50 * time.Minute)
	m.Set("k", 2)
	clock.Advance(50 * time.Minute)

	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMemory_UpdateKeepsAge(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory[int]("test", time.Hour, clock.Now)

	m.Set("k", 1)
	clock.Advance(30 * time.Minute)
	assert.True(t, m.Update("k", func(v int) int { return v + 1 }))
	clock.Advance(30 * time.Minute)

	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.False(t, m.Update("k", func(v int) int { return v }))
	assert.False(t, m.Update("missing", func(v int) int { return v }))
}

func TestMemory_Sweep(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory[string]("test", time.Hour, clock.Now)

	m.Set("old1", "x")
	m.Set("old2", "x")
	clock.Advance(45 * time.Minute)
	m.Set("fresh", "y")
	clock.Advance(20 * time.Minute)

	assert.Equal(t, 2, m.Sweep())
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 0, m.Sweep())

	var keys []string
	m.Range(func(k, _ string) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []string{"fresh"}, keys)
}

func TestMemory_DeleteAndDefaults(t *testing.T) {
	m := NewMemory[string]("test", 0, nil)
	assert.Equal(t, DefaultRetention, m.ttl)

	m.Set("a", "b")
	m.Delete("a")
	_, ok := m.Get("a")
	assert.False(t, ok)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory[int]("test", time.Hour, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%5))
			m.Set(key, i)
			m.Get(key)
			m.Update(key, func(v int) int { return v + 1 })
			m.Sweep()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, m.Len())
}

func TestCorrelationStore_LastWriteWins(t *testing.T) {
	clock := newFakeClock()
	store, _ := NewMemoryCorrelationStore(time.Hour, clock.Now)

	first := []model.PhoneNumber{{SanitizedNumber: "+15550000001", Type: "work"}, {SanitizedNumber: "+15550000002", Type: "mobile"}}
	second := []model.PhoneNumber{{SanitizedNumber: "+15550000003", Type: "mobile"}}

	store.Store("p1", first, "p1", "Jane Doe")
	clock.Advance(time.Minute)
	store.Store("p1", second, "p1", "")

	got, ok := store.Get("p1")
	require.True(t, ok)
	assert.Equal(t, second, got.PhoneNumbers)
	assert.Empty(t, got.PersonName)
	assert.Equal(t, clock.Now(), got.RecordedAt)
}

func TestCorrelationStore_StoreCopiesInput(t *testing.T) {
	store, _ := NewMemoryCorrelationStore(time.Hour, nil)
	phones := []model.PhoneNumber{{SanitizedNumber: "+1"}}
	store.Store("p1", phones, "p1", "")
	phones[0].SanitizedNumber = "+2"

	got, ok := store.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "+1", got.PhoneNumbers[0].SanitizedNumber)
}

func TestCorrelationStore_GetByPersonID(t *testing.T) {
	clock := newFakeClock()
	store, _ := NewMemoryCorrelationStore(time.Hour, clock.Now)

	store.Store("webhook_1", []model.PhoneNumber{{SanitizedNumber: "+1"}}, "p9", "")
	clock.Advance(time.Second)
	store.Store("webhook_2", []model.PhoneNumber{{SanitizedNumber: "+2"}}, "p9", "")
	store.Store("other", []model.PhoneNumber{{SanitizedNumber: "+3"}}, "p8", "")

	got, ok := store.GetByPersonID("p9")
	require.True(t, ok)
	assert.Equal(t, "webhook_2", got.Identifier)

	_, ok = store.GetByPersonID("")
	assert.False(t, ok)

	clock.Advance(time.Hour)
	_, ok = store.GetByPersonID("p9")
	assert.False(t, ok)
}

func TestRequestTracker_Lifecycle(t *testing.T) {
	clock := newFakeClock()
	tracker, mem := NewMemoryRequestTracker(time.Hour, clock.Now)

	req := tracker.Track(model.EnrichmentRequest{PersonID: "p1", UserID: "u1", ContactID: "c1"})
	assert.Equal(t, model.RequestPending, req.Status)
	assert.Equal(t, clock.Now(), req.CreatedAt)

	assert.True(t, tracker.MarkCompleted("p1"))
	got, ok := tracker.Get("p1")
	require.True(t, ok)
	assert.Equal(t, model.RequestCompleted, got.Status)
	assert.Equal(t, "c1", got.ContactID)

	clock.Advance(time.Hour)
	_, ok = tracker.Get("p1")
	assert.False(t, ok)
	assert.False(t, tracker.MarkCompleted("p1"))
	assert.Equal(t, 0, mem.Sweep())
}

func TestRequestTracker_TrackOverwrites(t *testing.T) {
	tracker, _ := NewMemoryRequestTracker(time.Hour, nil)

	tracker.Track(model.EnrichmentRequest{PersonID: "p1", UserID: "u1", ContactID: "c1"})
	tracker.MarkCompleted("p1")
	tracker.Track(model.EnrichmentRequest{PersonID: "p1", UserID: "u2", ContactID: "c2"})

	got, ok := tracker.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "u2", got.UserID)
	assert.Equal(t, model.RequestPending, got.Status)
	assert.Equal(t, 1, tracker.Len())
}

func TestRequestTracker_Claim(t *testing.T) {
	clock := newFakeClock()
	tracker, _ := NewMemoryRequestTracker(time.Hour, clock.Now)

	_, res := tracker.Claim("p1")
	assert.Equal(t, ClaimUntracked, res)

	tracker.Track(model.EnrichmentRequest{PersonID: "p1", UserID: "u1", ContactID: "c1"})
	req, res := tracker.Claim("p1")
	assert.Equal(t, ClaimAcquired, res)
	assert.Equal(t, model.RequestPending, req.Status)
	assert.Equal(t, "c1", req.ContactID)

	req, res = tracker.Claim("p1")
	assert.Equal(t, ClaimAlreadyCompleted, res)
	assert.Equal(t, model.RequestCompleted, req.Status)

	clock.Advance(time.Hour)
	_, res = tracker.Claim("p1")
	assert.Equal(t, ClaimUntracked, res)
}

func TestRequestTracker_ClaimConcurrent(t *testing.T) {
	tracker, _ := NewMemoryRequestTracker(time.Hour, nil)
	tracker.Track(model.EnrichmentRequest{PersonID: "p1", UserID: "u1"})

	var acquired atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, res := tracker.Claim("p1"); res == ClaimAcquired {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), acquired.Load())
}

func TestSweeper_SweepNowAndLifecycle(t *testing.T) {
	clock := newFakeClock()
	_, corr := NewMemoryCorrelationStore(time.Hour, clock.Now)
	_, reqs := NewMemoryRequestTracker(time.Hour, clock.Now)

	corr.Set("a", model.CorrelationEntry{Identifier: "a"})
	reqs.Set("p1", model.EnrichmentRequest{PersonID: "p1"})
	reqs.Set("p2", model.EnrichmentRequest{PersonID: "p2"})
	clock.Advance(2 * time.Hour)

	s := NewSweeper(time.Millisecond, corr, reqs)
	assert.Equal(t, 3, s.SweepNow())

	s.Start(context.Background())
	s.Stop()
	s.Stop()
}

func TestSweeper_TickerRuns(t *testing.T) {
	clock := newFakeClock()
	_, corr := NewMemoryCorrelationStore(time.Hour, clock.Now)
	corr.Set("a", model.CorrelationEntry{Identifier: "a"})
	clock.Advance(2 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewSweeper(5*time.Millisecond, corr)
	s.Start(ctx)
	defer s.Stop()

	assert.Eventually(t, func() bool {
		corr.mu.Lock()
		defer corr.mu.Unlock()
		return len(corr.entries) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSweeper_StopBeforeStart(t *testing.T) {
	s := NewSweeper(0)
	assert.Equal(t, DefaultSweepInterval, s.interval)
	s.Stop()
}
