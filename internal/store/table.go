// Package store holds the raw-store tables the reconciler owns: one
// keyed table per primitive kind, the associated-services index, the
// enrichment cache, and the enrichment-in-flight set.
//
// Every type here except EnrichmentCache is single-writer: only the
// reconciler ever mutates a Table, the AssocIndex, or an InFlightSet, so
// none of them take a lock. EnrichmentCache is written from enricher
// tasks and read from the reconciler and is the one piece of state that
// must be thread-safe (see devview SPEC_FULL §5).
package store

import (
	"fmt"

	"devview/internal/model"
)

// Table is the last-seen snapshot of one primitive kind, keyed by name.
type Table[T any] struct {
	entries map[string]T
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{entries: make(map[string]T)}
}

// Get returns the current entry for name, if any.
func (t *Table[T]) Get(name string) (T, bool) {
	v, ok := t.entries[name]
	return v, ok
}

// Len reports the number of entries currently in the table.
func (t *Table[T]) Len() int { return len(t.entries) }

// Range calls fn for every entry. fn must not mutate the table.
func (t *Table[T]) Range(fn func(name string, obj T)) {
	for name, obj := range t.entries {
		fn(name, obj)
	}
}

// Apply advances the table by one watch event and reports whether the
// table actually changed. A duplicate Added for a name that already has
// an entry is a fail-fast condition (see DESIGN.md, Open Question 1):
// the orchestrator is not expected to replay Added after reconnection,
// so a second Added for the same name indicates a protocol violation
// upstream rather than a benign re-announcement.
func (t *Table[T]) Apply(event model.ChangeType, name string, obj T) (bool, error) {
	switch event {
	case model.Added:
		if _, exists := t.entries[name]; exists {
			return false, fmt.Errorf("store: duplicate Added for %q", name)
		}
		t.entries[name] = obj
		return true, nil
	case model.Modified:
		t.entries[name] = obj
		return true, nil
	case model.Deleted:
		if _, exists := t.entries[name]; !exists {
			return false, nil
		}
		delete(t.entries, name)
		return true, nil
	default:
		return false, nil
	}
}
