package store

import "devview/internal/model"

// Owner identifies a container or executable by kind and name.
type Owner struct {
	Kind model.ObjectKind
	Name string
}

// AssocIndex is the (kind, name) -> [service_name] reverse map derived
// from ServiceProducer annotations. Deleting the owning primitive drops
// its row.
type AssocIndex struct {
	entries map[Owner][]string
}

// NewAssocIndex creates an empty index.
func NewAssocIndex() *AssocIndex {
	return &AssocIndex{entries: make(map[Owner][]string)}
}

// Set records the service names an owner declares, replacing any prior
// entry. An empty list removes the row.
func (a *AssocIndex) Set(kind model.ObjectKind, name string, services []string) {
	key := Owner{Kind: kind, Name: name}
	if len(services) == 0 {
		delete(a.entries, key)
		return
	}
	a.entries[key] = services
}

// Remove drops an owner's row entirely, e.g. on primitive deletion.
func (a *AssocIndex) Remove(kind model.ObjectKind, name string) {
	delete(a.entries, Owner{Kind: kind, Name: name})
}

// Get returns the service names declared by (kind, name).
func (a *AssocIndex) Get(kind model.ObjectKind, name string) []string {
	return a.entries[Owner{Kind: kind, Name: name}]
}

// OwnersOf returns every owner whose declared service list contains
// serviceName, used to re-emit owners when a service they depend on
// changes.
func (a *AssocIndex) OwnersOf(serviceName string) []Owner {
	var owners []Owner
	for owner, services := range a.entries {
		for _, s := range services {
			if s == serviceName {
				owners = append(owners, owner)
				break
			}
		}
	}
	return owners
}
