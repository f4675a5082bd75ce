package ledger

import (
	"time"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

// RequestTracker remembers which user and contact are waiting on phone data
// for a provider person id.
type RequestTracker struct {
	ledger Ledger[model.EnrichmentRequest]
	now    Clock
}

// NewRequestTracker wraps l. A nil clock uses time.Now.
func NewRequestTracker(l Ledger[model.EnrichmentRequest], now Clock) *RequestTracker {
	if now == nil {
		now = time.Now
	}
	return &RequestTracker{ledger: l, now: now}
}

// NewMemoryRequestTracker builds a tracker over an in-memory ledger with the
// given retention.
func NewMemoryRequestTracker(ttl time.Duration, now Clock) (*RequestTracker, *Memory[model.EnrichmentRequest]) {
	mem := NewMemory[model.EnrichmentRequest]("requests", ttl, now)
	return NewRequestTracker(mem, now), mem
}

// Track registers a pending request, overwriting any prior one for the same
// person id.
func (t *RequestTracker) Track(req model.EnrichmentRequest) model.EnrichmentRequest {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = t.now()
	}
	req.Status = model.RequestPending
	t.ledger.Set(req.PersonID, req)
	return req
}

// Get returns the live request for personID.
func (t *RequestTracker) Get(personID string) (model.EnrichmentRequest, bool) {
	return t.ledger.Get(personID)
}

// MarkCompleted flips a live request to completed. The entry is kept until it
// expires. It reports false when nothing live is tracked.
func (t *RequestTracker) MarkCompleted(personID string) bool {
	return t.ledger.Update(personID, func(r model.EnrichmentRequest) model.EnrichmentRequest {
		r.Status = model.RequestCompleted
		return r
	})
}

// ClaimResult is the outcome of Claim.
type ClaimResult int

const (
	// ClaimUntracked means no live request exists for the person id.
	ClaimUntracked ClaimResult = iota
	// ClaimAcquired means the request was pending and is now completed.
	ClaimAcquired
	// ClaimAlreadyCompleted means an earlier delivery completed the request.
	ClaimAlreadyCompleted
)

// Claim atomically completes a pending request and returns it as it was
// before the transition. Concurrent deliveries for the same person see
// exactly one ClaimAcquired.
func (t *RequestTracker) Claim(personID string) (model.EnrichmentRequest, ClaimResult) {
	var (
		before model.EnrichmentRequest
		result = ClaimUntracked
	)
	t.ledger.Update(personID, func(r model.EnrichmentRequest) model.EnrichmentRequest {
		before = r
		if r.Status == model.RequestCompleted {
			result = ClaimAlreadyCompleted
			return r
		}
		result = ClaimAcquired
		r.Status = model.RequestCompleted
		return r
	})
	return before, result
}

// Len reports live requests.
func (t *RequestTracker) Len() int { return t.ledger.Len() }
