package devview

import (
	"context"
	"strings"
	"sync"

	"devview/config"
	"devview/internal/check"
	"devview/internal/enrich"
	"devview/internal/fanout"
	"devview/internal/queue"
	"devview/internal/reconcile"
	"devview/internal/store"
	"devview/internal/telemetry"
	"devview/internal/watch"

	"golang.org/x/sync/errgroup"
)

// Sources bundles the four orchestrator watch clients the engine
// multiplexes. Each is an external collaborator per spec.md §1/§6.
type Sources struct {
	Containers  WatchSource[Container]
	Executables WatchSource[Executable]
	Endpoints   WatchSource[Endpoint]
	Services    WatchSource[Service]
}

// Engine is the process-wide reconciliation engine described in
// spec.md. Construct with New, drive its lifecycle with Start/Stop, and
// read Containers/Executables/Projects/Resources for the live
// view-model streams. It is not a singleton — tests construct as many
// independent instances as they need (spec.md §9 design notes).
type Engine struct {
	sources Sources
	runner  ProcessRunner
	apps    ApplicationModel
	proto   ProtocolPredicate
	hostEnv HostEnvironment
	cfg     config.Config
	tracer  telemetry.Tracer

	store      *store.Store
	mux        *watch.Multiplexer
	enricher   *enrich.Enricher
	reconciler *reconcile.Reconciler

	containers  *fanout.Processor[ContainerView]
	executables *fanout.Processor[ExecutableView]
	projects    *fanout.Processor[ProjectView]
	resources   *fanout.Processor[ResourceView]

	appName string

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New constructs an Engine. It does not start any background work; call
// Start for that.
func New(cfg config.Config, sources Sources, runner ProcessRunner, apps ApplicationModel, proto ProtocolPredicate, hostEnv HostEnvironment, tracer telemetry.Tracer) *Engine {
	check.Assert(sources.Containers != nil, "devview.New: sources.Containers must not be nil")
	check.Assert(sources.Executables != nil, "devview.New: sources.Executables must not be nil")
	check.Assert(sources.Endpoints != nil, "devview.New: sources.Endpoints must not be nil")
	check.Assert(sources.Services != nil, "devview.New: sources.Services must not be nil")
	check.Assert(proto != nil, "devview.New: proto must not be nil")
	check.Assert(hostEnv != nil, "devview.New: hostEnv must not be nil")

	st := store.New()
	mux := watch.New(sources.Containers, sources.Executables, sources.Endpoints, sources.Services)
	enricher := enrich.New(runner, st.Enrichment, cfg.Enrichment.DockerBinary, cfg.Enrichment.Timeout, tracer)

	// Merged and Out are wired in Start, once a real (cancellable) ctx
	// exists: every queue.Unbounded pump is tied to that ctx so Stop
	// reclaims it, and there is no ctx yet at construction time.
	rec := &reconcile.Reconciler{
		Store:      st,
		Enricher:   enricher,
		Proto:      proto,
		Apps:       apps,
		Tracer:     tracer,
		EnrichDone: enricher.Done(),
	}

	return &Engine{
		sources:    sources,
		runner:     runner,
		apps:       apps,
		proto:      proto,
		hostEnv:    hostEnv,
		cfg:        cfg,
		tracer:     tracer,
		store:      st,
		mux:        mux,
		enricher:   enricher,
		reconciler: rec,

		containers:  fanout.New(func(v ContainerView) string { return v.Name }, cfg.Channels.SubscriberBuffer),
		executables: fanout.New(func(v ExecutableView) string { return v.Name }, cfg.Channels.SubscriberBuffer),
		projects:    fanout.New(func(v ProjectView) string { return v.Name }, cfg.Channels.SubscriberBuffer),
		resources:   fanout.New(func(v ResourceView) string { return v.Base().Name }, cfg.Channels.SubscriberBuffer),

		appName: stripAppHostSuffix(hostEnv.ApplicationName()),
	}
}

// stripAppHostSuffix removes a trailing case-insensitive ".AppHost" from
// name, per spec.md §6.
func stripAppHostSuffix(name string) string {
	const suffix = ".AppHost"
	if len(name) >= len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
		return name[:len(name)-len(suffix)]
	}
	return name
}

// Start launches the watch multiplexer, the reconciler, and the
// fan-out processors under one cancellable errgroup, grounded on the
// teacher's daemon.Run (daemon/daemon.go), which joins its machine loop
// and API server the same way. Start returns immediately; call Stop to
// join and tear everything down.
func (e *Engine) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	e.mu.Lock()
	e.cancel = cancel
	e.group = g
	e.mu.Unlock()

	e.mux.Start(gctx, g)
	e.reconciler.Merged = e.mux.Merged.Out()
	e.reconciler.Out = reconcile.Outputs{
		Containers:  queue.NewUnbounded[Change[ContainerView]](gctx),
		Executables: queue.NewUnbounded[Change[ExecutableView]](gctx),
		Projects:    queue.NewUnbounded[Change[ProjectView]](gctx),
		Resources:   queue.NewUnbounded[Change[ResourceView]](gctx),
	}

	g.Go(func() error { return e.reconciler.Run(gctx) })
	g.Go(func() error { e.containers.Run(gctx, e.reconciler.Out.Containers.Out()); return nil })
	g.Go(func() error { e.executables.Run(gctx, e.reconciler.Out.Executables.Out()); return nil })
	g.Go(func() error { e.projects.Run(gctx, e.reconciler.Out.Projects.Out()); return nil })
	g.Go(func() error { e.resources.Run(gctx, e.reconciler.Out.Resources.Out()); return nil })
}

// Stop cancels every task Start launched and joins all of them —
// the watchers, the reconciler, the fan-out processors, and every
// in-flight enrichment goroutine Schedule launched — before returning,
// resolving spec.md §9 Open Question 4 (the original DisposeAsync
// cancels but never awaits shutdown). The queue.Unbounded pumps behind
// Merged and Out are tied to the same cancelled ctx, so they exit on
// their own and need no separate join.
func (e *Engine) Stop() error {
	e.mu.Lock()
	cancel, g := e.cancel, e.group
	e.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	err := g.Wait()
	e.enricher.Wait()
	return err
}

// Containers returns a snapshot-plus-stream monitor of container view
// models. The monitor's lifetime is bound to ctx.
func (e *Engine) Containers(ctx context.Context) Monitor[ContainerView] {
	return e.containers.Subscribe(ctx)
}

// Executables returns a snapshot-plus-stream monitor of non-project
// executable view models.
func (e *Engine) Executables(ctx context.Context) Monitor[ExecutableView] {
	return e.executables.Subscribe(ctx)
}

// Projects returns a snapshot-plus-stream monitor of project view
// models.
func (e *Engine) Projects(ctx context.Context) Monitor[ProjectView] { return e.projects.Subscribe(ctx) }

// Resources returns a snapshot-plus-stream monitor of the aggregate
// resource stream: the union of Containers, Executables, and Projects
// with identical per-resource payloads (spec.md §3 invariant 5).
func (e *Engine) Resources(ctx context.Context) Monitor[ResourceView] {
	return e.resources.Subscribe(ctx)
}

// ApplicationName is the host application's display name, with a
// trailing ".AppHost" suffix stripped.
func (e *Engine) ApplicationName() string { return e.appName }
