package memcache

import (
	"sync"
	"time"
)

// PlanCacheStore keeps the most recent generated itinerary per trip so the
// read endpoint does not have to hit the database right after a regeneration.
// Caching lives here, outside the planning core, which owns no shared state.
type PlanCacheStore interface {
	Set(tripID string, plan interface{}, ttl time.Duration)

	// Get returns the cached plan for tripID if not expired.
	Get(tripID string) (interface{}, bool)

	// Invalidate drops the entry, used when a regeneration replaces the plan.
	Invalidate(tripID string)
}

type entry struct {
	plan      interface{}
	expiresAt time.Time
}

type PlanCache struct {
	mu   sync.RWMutex
	data map[string]entry
}

func NewPlanCache() *PlanCache {
	return &PlanCache{data: make(map[string]entry)}
}

func (s *PlanCache) Set(tripID string, plan interface{}, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[tripID] = entry{plan: plan, expiresAt: time.Now().Add(ttl)}
}

func (s *PlanCache) Get(tripID string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[tripID]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.plan, true
}

func (s *PlanCache) Invalidate(tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, tripID)
}
