package store

import "devview/internal/model"

// Store bundles the four raw tables plus the associated-services index
// and enrichment state. It has exactly one writer: the reconciler.
type Store struct {
	Containers  *Table[model.Container]
	Executables *Table[model.Executable]
	Endpoints   *Table[model.Endpoint]
	Services    *Table[model.Service]

	Assoc      *AssocIndex
	Enrichment *EnrichmentCache
	InFlight   *InFlightSet
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		Containers:  NewTable[model.Container](),
		Executables: NewTable[model.Executable](),
		Endpoints:   NewTable[model.Endpoint](),
		Services:    NewTable[model.Service](),
		Assoc:       NewAssocIndex(),
		Enrichment:  NewEnrichmentCache(),
		InFlight:    NewInFlightSet(),
	}
}
