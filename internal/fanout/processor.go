// Package fanout maintains, per view-model kind (plus one aggregate),
// the current set of view models and broadcasts deltas to subscribers
// with atomic snapshot-plus-stream semantics.
//
// Grounded on the teacher's watch.Broker (internal/watch/broker.go):
// per-subscriber buffered channels, a snapshot taken and a subscriber
// registered under the same lock so no delta can be missed or
// duplicated across the join point, and a subscriber's own context
// driving its own unsubscribe. Where the teacher replays a bounded
// history buffer to a fresh subscriber, this processor instead replays
// the full current-state map — the fan-out's job is exact snapshot
// equivalence (spec.md §8 property 2), not a bounded backlog.
package fanout

import (
	"context"
	"sync"

	"devview/internal/model"
)

// Processor fans out deltas for one view-model kind (V is a concrete
// view like model.ContainerView, or model.ResourceView for the
// aggregate stream). nameOf is the dedup/replace key: for the aggregate
// stream this is Base().Name, so a container and an executable sharing a
// name collide there even though spec.md §3 only guarantees uniqueness
// within a kind — matching the original, which assumes names are
// globally unique across kinds too.
type Processor[V any] struct {
	nameOf        func(V) string
	subscriberCap int

	mu     sync.Mutex
	order  []string
	byName map[string]V
	subs   map[uint64]chan model.Change[V]
	nextID uint64
}

// New creates a Processor. subscriberCap is the per-subscriber buffer
// depth before a subscriber is dropped for overflow (see Run/apply doc).
func New[V any](nameOf func(V) string, subscriberCap int) *Processor[V] {
	if subscriberCap <= 0 {
		subscriberCap = 128
	}
	return &Processor[V]{
		nameOf:        nameOf,
		subscriberCap: subscriberCap,
		byName:        make(map[string]V),
		subs:          make(map[uint64]chan model.Change[V]),
	}
}

// Subscribe registers a new subscriber and atomically returns its
// current-state snapshot plus its delta stream: no delta applied after
// Subscribe returns is missing from the stream, and no delta applied
// before it appears in it. The subscription is torn down when ctx is
// done.
func (p *Processor[V]) Subscribe(ctx context.Context) model.Monitor[V] {
	p.mu.Lock()
	snapshot := make([]V, len(p.order))
	for i, name := range p.order {
		snapshot[i] = p.byName[name]
	}
	ch := make(chan model.Change[V], p.subscriberCap)
	id := p.nextID
	p.nextID++
	p.subs[id] = ch
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.unsubscribe(id)
	}()

	return model.Monitor[V]{Snapshot: snapshot, Stream: ch}
}

func (p *Processor[V]) unsubscribe(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch, ok := p.subs[id]; ok {
		delete(p.subs, id)
		close(ch)
	}
}

// Run drains in, applying each delta to the current-state map and
// broadcasting it to every subscriber, until in closes or ctx is done.
func (p *Processor[V]) Run(ctx context.Context, in <-chan model.Change[V]) {
	for {
		select {
		case <-ctx.Done():
			p.closeAll()
			return
		case delta, ok := <-in:
			if !ok {
				p.closeAll()
				return
			}
			p.apply(delta)
		}
	}
}

// apply updates the current-state map and broadcasts delta to every
// subscriber under the same lock, so Subscribe can never observe a
// state/stream split. A subscriber whose buffer is full is dropped
// rather than allowed to block the processor or any other subscriber —
// this is the documented backpressure policy (spec.md §4.4): drop, don't
// buffer without bound. The dropped subscriber's terminal condition is
// its channel closing.
func (p *Processor[V]) apply(delta model.Change[V]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := p.nameOf(delta.Value)
	switch delta.Type {
	case model.Added, model.Modified:
		if _, exists := p.byName[name]; !exists {
			p.order = append(p.order, name)
		}
		p.byName[name] = delta.Value
	case model.Deleted:
		if _, exists := p.byName[name]; exists {
			delete(p.byName, name)
			p.order = removeName(p.order, name)
		}
	case model.Other:
	}

	for id, ch := range p.subs {
		select {
		case ch <- delta:
		default:
			close(ch)
			delete(p.subs, id)
		}
	}
}

func (p *Processor[V]) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, ch := range p.subs {
		close(ch)
		delete(p.subs, id)
	}
}

func removeName(order []string, name string) []string {
	for i, n := range order {
		if n == name {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
