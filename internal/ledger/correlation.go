package ledger

import (
	"time"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

// CorrelationStore holds phone numbers delivered by webhook, keyed by the
// provider person id or a synthesized identifier.
type CorrelationStore struct {
	ledger Ledger[model.CorrelationEntry]
	now    Clock
}

// NewCorrelationStore wraps l. A nil clock uses time.Now.
func NewCorrelationStore(l Ledger[model.CorrelationEntry], now Clock) *CorrelationStore {
	if now == nil {
		now = time.Now
	}
	return &CorrelationStore{ledger: l, now: now}
}

// NewMemoryCorrelationStore builds a store over an in-memory ledger with the
// given retention.
func NewMemoryCorrelationStore(ttl time.Duration, now Clock) (*CorrelationStore, *Memory[model.CorrelationEntry]) {
	mem := NewMemory[model.CorrelationEntry]("correlation", ttl, now)
	return NewCorrelationStore(mem, now), mem
}

// Store replaces any entry for identifier. Later deliveries win; lists are
// never merged.
func (s *CorrelationStore) Store(identifier string, phones []model.PhoneNumber, personID, personName string) model.CorrelationEntry {
	e := model.CorrelationEntry{
		Identifier:   identifier,
		PhoneNumbers: append([]model.PhoneNumber(nil), phones...),
		PersonID:     personID,
		PersonName:   personName,
		RecordedAt:   s.now(),
	}
	s.ledger.Set(identifier, e)
	return e
}

// Get returns the live entry for identifier.
func (s *CorrelationStore) Get(identifier string) (model.CorrelationEntry, bool) {
	return s.ledger.Get(identifier)
}

// GetByPersonID scans for the most recent live entry whose PersonID matches.
func (s *CorrelationStore) GetByPersonID(personID string) (model.CorrelationEntry, bool) {
	if personID == "" {
		return model.CorrelationEntry{}, false
	}
	var (
		found model.CorrelationEntry
		ok    bool
	)
	s.ledger.Range(func(_ string, e model.CorrelationEntry) bool {
		if e.PersonID == personID && (!ok || e.RecordedAt.After(found.RecordedAt)) {
			found, ok = e, true
		}
		return true
	})
	return found, ok
}

// Len reports live entries.
func (s *CorrelationStore) Len() int { return s.ledger.Len() }
