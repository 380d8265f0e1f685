package store

import (
	"sync"

	"devview/internal/model"
)

// EnrichmentCache maps a container runtime id to the environment
// variables harvested from that container by the enricher. It is the
// only cross-task shared mutable state in the engine: enricher tasks
// write, the reconciler reads. Writes are single-writer per key (an
// in-flight runtime id is never scheduled twice), so a RWMutex around a
// plain map is sufficient — no per-key locking needed.
type EnrichmentCache struct {
	mu      sync.RWMutex
	entries map[string][]model.EnvVar
}

// NewEnrichmentCache creates an empty cache.
func NewEnrichmentCache() *EnrichmentCache {
	return &EnrichmentCache{entries: make(map[string][]model.EnvVar)}
}

// Get returns the cached environment for runtimeID, if enrichment has
// completed for it.
func (c *EnrichmentCache) Get(runtimeID string) ([]model.EnvVar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[runtimeID]
	return v, ok
}

// Set stores the harvested environment for runtimeID. Entries persist
// until process exit — the runtime id is itself stable per container, so
// there is no eviction policy.
func (c *EnrichmentCache) Set(runtimeID string, env []model.EnvVar) {
	c.mu.Lock()
	c.entries[runtimeID] = env
	c.mu.Unlock()
}

// InFlightSet tracks runtime ids for which an enrichment task has been
// scheduled. It is owned exclusively by the reconciler (the sole task
// that schedules enrichment), so it needs no lock. Entries are never
// removed: enrichment tasks are one-shot, and a failed enrichment is not
// retried until the container is recreated with a new runtime id.
type InFlightSet struct {
	seen map[string]struct{}
}

// NewInFlightSet creates an empty set.
func NewInFlightSet() *InFlightSet {
	return &InFlightSet{seen: make(map[string]struct{})}
}

// Contains reports whether an enrichment task has ever been scheduled
// for runtimeID.
func (s *InFlightSet) Contains(runtimeID string) bool {
	_, ok := s.seen[runtimeID]
	return ok
}

// Add marks runtimeID as scheduled.
func (s *InFlightSet) Add(runtimeID string) {
	s.seen[runtimeID] = struct{}{}
}
