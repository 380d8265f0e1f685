// Package watch multiplexes the four primitive watch streams — Container,
// Executable, Endpoint, Service — into a single merged channel the
// reconciler drains serially.
//
// Each kind gets its own long-lived goroutine, mirroring the teacher's
// watch.Broker (internal/watch/broker.go), which likewise runs one
// dedicated goroutine per topic (runMachines/runHeartbeats) rather than a
// generic multi-kind loop: a watch failure on one kind must never starve
// or wedge another.
package watch

import (
	"context"
	"errors"
	"log/slog"

	"devview/internal/model"
	"devview/internal/queue"

	"golang.org/x/sync/errgroup"
)

// Message is one entry on the merged channel: an event for a single
// named primitive.
//
// spec.md §4.2 step 1 describes the enricher signaling completion with a
// synthetic (Modified, name, nil) message drained through this same
// queue. DESIGN.md documents why this engine instead gives the enricher
// its own completion queue that the reconciler selects alongside this
// one — the redesign spec.md §9 itself calls out as cleaner — so Object
// here is always non-nil.
type Message struct {
	Type   model.ChangeType
	Kind   model.ObjectKind
	Name   string
	Object any
}

// Multiplexer owns the four watch sources and the merged output queue.
type Multiplexer struct {
	Containers  model.WatchSource[model.Container]
	Executables model.WatchSource[model.Executable]
	Endpoints   model.WatchSource[model.Endpoint]
	Services    model.WatchSource[model.Service]

	Merged *queue.Unbounded[Message]
}

// New creates a Multiplexer. The merged queue is created by Start, tied
// to the ctx Start runs under, so its pump goroutine is reclaimed the
// same moment the watchers it serves are.
func New(containers model.WatchSource[model.Container], executables model.WatchSource[model.Executable], endpoints model.WatchSource[model.Endpoint], services model.WatchSource[model.Service]) *Multiplexer {
	return &Multiplexer{
		Containers:  containers,
		Executables: executables,
		Endpoints:   endpoints,
		Services:    services,
	}
}

// Start creates the merged queue and registers one task per kind on g.
// Each task runs until ctx is cancelled or its source's stream ends; per
// spec.md §4.1 a watch failure on one kind never propagates to the
// others, so each task always returns nil — a kind's own failure must
// not cancel the shared errgroup context and take down its siblings.
func (m *Multiplexer) Start(ctx context.Context, g *errgroup.Group) {
	m.Merged = queue.NewUnbounded[Message](ctx)
	g.Go(func() error { runContainers(ctx, m.Containers, m.Merged); return nil })
	g.Go(func() error { runExecutables(ctx, m.Executables, m.Merged); return nil })
	g.Go(func() error { runEndpoints(ctx, m.Endpoints, m.Merged); return nil })
	g.Go(func() error { runServices(ctx, m.Services, m.Merged); return nil })
}

func toChangeType(t model.WatchEventType) (model.ChangeType, bool) {
	switch t {
	case model.WatchAdded:
		return model.Added, true
	case model.WatchModified:
		return model.Modified, true
	case model.WatchDeleted:
		return model.Deleted, true
	default:
		return model.Other, false
	}
}

func logStreamErr(kind model.ObjectKind, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	slog.Error("watch stream failed", "kind", kind, "err", err)
}

func runContainers(ctx context.Context, source model.WatchSource[model.Container], out *queue.Unbounded[Message]) {
	ch, err := source.Watch(ctx)
	if err != nil {
		logStreamErr(model.KindContainer, err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Type == model.WatchBookmark {
				continue
			}
			if ev.Type == model.WatchError {
				logStreamErr(model.KindContainer, ev.Err)
				return
			}
			ct, ok := toChangeType(ev.Type)
			if !ok {
				continue
			}
			out.Send(Message{Type: ct, Kind: model.KindContainer, Name: ev.Object.Name, Object: ev.Object})
		}
	}
}

func runExecutables(ctx context.Context, source model.WatchSource[model.Executable], out *queue.Unbounded[Message]) {
	ch, err := source.Watch(ctx)
	if err != nil {
		logStreamErr(model.KindExecutable, err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Type == model.WatchBookmark {
				continue
			}
			if ev.Type == model.WatchError {
				logStreamErr(model.KindExecutable, ev.Err)
				return
			}
			ct, ok := toChangeType(ev.Type)
			if !ok {
				continue
			}
			out.Send(Message{Type: ct, Kind: model.KindExecutable, Name: ev.Object.Name, Object: ev.Object})
		}
	}
}

func runEndpoints(ctx context.Context, source model.WatchSource[model.Endpoint], out *queue.Unbounded[Message]) {
	ch, err := source.Watch(ctx)
	if err != nil {
		logStreamErr(model.KindEndpoint, err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Type == model.WatchBookmark {
				continue
			}
			if ev.Type == model.WatchError {
				logStreamErr(model.KindEndpoint, ev.Err)
				return
			}
			ct, ok := toChangeType(ev.Type)
			if !ok {
				continue
			}
			out.Send(Message{Type: ct, Kind: model.KindEndpoint, Name: ev.Object.Name, Object: ev.Object})
		}
	}
}

func runServices(ctx context.Context, source model.WatchSource[model.Service], out *queue.Unbounded[Message]) {
	ch, err := source.Watch(ctx)
	if err != nil {
		logStreamErr(model.KindService, err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Type == model.WatchBookmark {
				continue
			}
			if ev.Type == model.WatchError {
				logStreamErr(model.KindService, ev.Err)
				return
			}
			ct, ok := toChangeType(ev.Type)
			if !ok {
				continue
			}
			out.Send(Message{Type: ct, Kind: model.KindService, Name: ev.Object.Name, Object: ev.Object})
		}
	}
}
