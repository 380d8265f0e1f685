// Package reconcile implements the engine's single serial consumer of
// the merged watch channel: the only task that mutates the raw store,
// the associated-services index, and the enrichment in-flight set.
//
// Grounded on the teacher's reconcile.Worker (internal/reconcile/worker.go):
// a select loop over one or more channels, an OnEvent/OnFailure callback
// pair for host observability alongside slog, and a terminal return on
// unrecoverable error rather than an internal retry (the caller is
// expected to restart the process — the teacher's own daemon does the
// same for its machine loop).
package reconcile

import (
	"context"
	"log/slog"

	"devview/internal/check"
	"devview/internal/enrich"
	"devview/internal/model"
	"devview/internal/queue"
	"devview/internal/store"
	"devview/internal/telemetry"
	"devview/internal/watch"
)

// Outputs is the set of unbounded delta queues the reconciler emits into.
// One queue per view-model kind plus the aggregate resource stream (§9
// design note (a): explicit fan-out rather than a filtered bus).
type Outputs struct {
	Containers  *queue.Unbounded[model.Change[model.ContainerView]]
	Executables *queue.Unbounded[model.Change[model.ExecutableView]]
	Projects    *queue.Unbounded[model.Change[model.ProjectView]]
	Resources   *queue.Unbounded[model.Change[model.ResourceView]]
}

// Reconciler is the sole writer of Store; it is not safe for concurrent
// use beyond the single Run goroutine.
type Reconciler struct {
	Store    *store.Store
	Enricher *enrich.Enricher
	Proto    model.ProtocolPredicate
	Apps     model.ApplicationModel
	Tracer   telemetry.Tracer

	Merged     <-chan watch.Message
	EnrichDone <-chan enrich.Done

	Out Outputs

	OnEvent   func(eventType, message string)
	OnFailure func(error)
}

func (r *Reconciler) emit(eventType, message string) {
	if r.OnEvent != nil {
		r.OnEvent(eventType, message)
	}
	slog.Debug("reconcile event", "event", eventType, "message", message)
}

func (r *Reconciler) fail(err error) {
	if r.OnFailure != nil {
		r.OnFailure(err)
	}
	if err != nil {
		slog.Error("reconcile failure", "err", err)
	}
}

// Run drains the merged channel and the enricher's completion queue
// until ctx is cancelled or an unhandled error occurs, in which case it
// logs and returns — no further updates are emitted, matching the
// Reconcile-failure policy in spec.md §7.
func (r *Reconciler) Run(ctx context.Context) error {
	check.Assert(r.Store != nil, "Reconciler.Run: Store must not be nil")
	check.Assert(r.Proto != nil, "Reconciler.Run: Proto must not be nil")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-r.Merged:
			if !ok {
				return nil
			}
			if err := r.dispatch(ctx, msg); err != nil {
				r.fail(err)
				return err
			}
		case d, ok := <-r.EnrichDone:
			if !ok {
				r.EnrichDone = nil
				continue
			}
			r.reemitContainer(ctx, d.ContainerName)
		}
	}
}

func (r *Reconciler) dispatch(ctx context.Context, msg watch.Message) error {
	return telemetry.Span(ctx, r.Tracer, "devview.reconcile", telemetry.ResourceAttrs(msg.Kind.String(), msg.Name), func(spanCtx context.Context) error {
		switch msg.Kind {
		case model.KindContainer:
			c, ok := msg.Object.(model.Container)
			check.Assertf(ok, "reconcile: container message %q carried %T", msg.Name, msg.Object)
			return r.processContainerChange(spanCtx, msg.Type, c)
		case model.KindExecutable:
			e, ok := msg.Object.(model.Executable)
			check.Assertf(ok, "reconcile: executable message %q carried %T", msg.Name, msg.Object)
			if e.IsProject() {
				return r.processExecutableLike(spanCtx, msg.Type, e, true)
			}
			return r.processExecutableLike(spanCtx, msg.Type, e, false)
		case model.KindEndpoint:
			ep, ok := msg.Object.(model.Endpoint)
			check.Assertf(ok, "reconcile: endpoint message %q carried %T", msg.Name, msg.Object)
			return r.processEndpointChange(spanCtx, msg.Type, ep)
		case model.KindService:
			s, ok := msg.Object.(model.Service)
			check.Assertf(ok, "reconcile: service message %q carried %T", msg.Name, msg.Object)
			return r.processServiceChange(spanCtx, msg.Type, s)
		default:
			return nil
		}
	})
}

func (r *Reconciler) reemitContainer(ctx context.Context, name string) {
	c, ok := r.Store.Containers.Get(name)
	check.Assertf(ok, "reconcile: enrichment completion for missing container %q", name)
	if !ok {
		return
	}
	r.emitContainer(c, model.Modified)
}
