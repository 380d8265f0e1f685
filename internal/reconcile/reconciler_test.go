package reconcile_test

import (
	"context"
	"testing"
	"time"

	"devview/internal/adapter/fake"
	"devview/internal/enrich"
	"devview/internal/model"
	"devview/internal/queue"
	"devview/internal/reconcile"
	"devview/internal/store"
	"devview/internal/watch"
)

type harness struct {
	rec    *reconcile.Reconciler
	merged chan watch.Message
	cancel context.CancelFunc
}

func newHarness(t *testing.T, proto model.ProtocolPredicate, apps model.ApplicationModel) *harness {
	t.Helper()
	st := store.New()
	runner := &fake.ProcessRunner{Stdout: `["A=1"]`, ExitCode: 0}
	enricher := enrich.New(runner, st.Enrichment, "docker", time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())

	merged := make(chan watch.Message, 32)
	rec := &reconcile.Reconciler{
		Store:      st,
		Enricher:   enricher,
		Proto:      proto,
		Apps:       apps,
		Merged:     merged,
		EnrichDone: enricher.Done(),
		Out: reconcile.Outputs{
			Containers:  queue.NewUnbounded[model.Change[model.ContainerView]](ctx),
			Executables: queue.NewUnbounded[model.Change[model.ExecutableView]](ctx),
			Projects:    queue.NewUnbounded[model.Change[model.ProjectView]](ctx),
			Resources:   queue.NewUnbounded[model.Change[model.ResourceView]](ctx),
		},
	}

	go rec.Run(ctx)

	return &harness{rec: rec, merged: merged, cancel: cancel}
}

func (h *harness) send(kind model.ObjectKind, typ model.ChangeType, name string, obj any) {
	h.merged <- watch.Message{Type: typ, Kind: kind, Name: name, Object: obj}
}

func recvContainer(t *testing.T, h *harness) model.Change[model.ContainerView] {
	t.Helper()
	select {
	case c := <-h.rec.Out.Containers.Out():
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a container view delta")
		return model.Change[model.ContainerView]{}
	}
}

func recvProject(t *testing.T, h *harness) model.Change[model.ProjectView] {
	t.Helper()
	select {
	case p := <-h.rec.Out.Projects.Out():
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a project view delta")
		return model.Change[model.ProjectView]{}
	}
}

func TestProjectHTTPEndpointJoin(t *testing.T) {
	proto := fake.NewHTTPProtocolPredicate()
	apps := fake.NewApplicationModel()
	apps.AddProject("/src/Api/Api.csproj", model.LaunchProfile{LaunchURL: "swagger", HasURL: true})
	h := newHarness(t, proto, apps)
	defer h.cancel()

	svc := model.Service{Name: "api-http", Spec: model.ServiceSpec{Protocol: "http"}}
	h.send(model.KindService, model.Added, svc.Name, svc)

	exe := model.Executable{
		Name:        "api",
		Annotations: map[string]string{model.AnnotationCSharpProjectPath: "/src/Api/Api.csproj"},
	}
	h.send(model.KindExecutable, model.Added, exe.Name, exe)
	recvProject(t, h) // initial emission, before the endpoint is known

	ep := model.Endpoint{
		Name:      "api-ep",
		OwnerRefs: []model.OwnerRef{{Kind: model.KindExecutable, Name: "api"}},
		Spec:      model.EndpointSpec{ServiceName: "api-http", Address: "127.0.0.1", Port: 5000},
	}
	h.send(model.KindEndpoint, model.Added, ep.Name, ep)

	delta := recvProject(t, h)
	if len(delta.Value.Endpoints) != 1 {
		t.Fatalf("Endpoints = %v, want 1 entry", delta.Value.Endpoints)
	}
	want := "http://127.0.0.1:5000/swagger"
	if delta.Value.Endpoints[0] != want {
		t.Errorf("Endpoints[0] = %q, want %q", delta.Value.Endpoints[0], want)
	}
}

func TestContainerEnrichmentReEmitsWithEnv(t *testing.T) {
	proto := fake.NewHTTPProtocolPredicate()
	h := newHarness(t, proto, nil)
	defer h.cancel()

	c := model.Container{
		Name:    "web",
		EnvSpec: []model.EnvVar{{Name: "PORT"}},
		Status:  model.ContainerStatus{RuntimeID: "rt-1", State: "running"},
	}
	h.send(model.KindContainer, model.Added, c.Name, c)
	recvContainer(t, h) // pre-enrichment emission

	delta := recvContainer(t, h) // post-enrichment re-emission
	found := false
	for _, e := range delta.Value.Environment {
		if e.Name == "A" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Environment = %v, want it to include the enriched var A", delta.Value.Environment)
	}
}

func TestServiceChangeReEmitsOwners(t *testing.T) {
	proto := fake.NewHTTPProtocolPredicate()
	h := newHarness(t, proto, nil)
	defer h.cancel()

	c := model.Container{Name: "web", Annotations: map[string]string{
		model.AnnotationServiceProducer: `[{"service_name":"web-http"}]`,
	}}
	h.send(model.KindContainer, model.Added, c.Name, c)
	recvContainer(t, h)

	svc := model.Service{Name: "web-http", Spec: model.ServiceSpec{Protocol: "http"}}
	h.send(model.KindService, model.Added, svc.Name, svc)

	// Late service producer: the container is re-emitted once its
	// declared service exists, even though no endpoint was ever seen.
	delta := recvContainer(t, h)
	if delta.Value.ExpectedEndpointsCount == nil || *delta.Value.ExpectedEndpointsCount != 1 {
		t.Fatalf("ExpectedEndpointsCount = %v, want *1", delta.Value.ExpectedEndpointsCount)
	}
}

func TestDeletionCleansAssociatedServicesIndex(t *testing.T) {
	proto := fake.NewHTTPProtocolPredicate()
	h := newHarness(t, proto, nil)
	defer h.cancel()

	c := model.Container{Name: "web", Annotations: map[string]string{
		model.AnnotationServiceProducer: `[{"service_name":"web-http"}]`,
	}}
	h.send(model.KindContainer, model.Added, c.Name, c)
	recvContainer(t, h)

	h.send(model.KindContainer, model.Deleted, c.Name, c)
	recvContainer(t, h)

	// A service arriving after deletion must not resurrect the owner.
	svc := model.Service{Name: "web-http", Spec: model.ServiceSpec{Protocol: "http"}}
	h.send(model.KindService, model.Added, svc.Name, svc)

	select {
	case delta := <-h.rec.Out.Containers.Out():
		t.Fatalf("unexpected re-emission of a deleted container: %+v", delta)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestExpectedEndpointsCountUnknownUntilDeclaredServiceExists(t *testing.T) {
	proto := fake.NewHTTPProtocolPredicate()
	h := newHarness(t, proto, nil)
	defer h.cancel()

	c := model.Container{Name: "web", Annotations: map[string]string{
		model.AnnotationServiceProducer: `[{"service_name":"not-yet-registered"}]`,
	}}
	h.send(model.KindContainer, model.Added, c.Name, c)

	delta := recvContainer(t, h)
	if delta.Value.ExpectedEndpointsCount != nil {
		t.Fatalf("ExpectedEndpointsCount = %v, want nil while a declared service is missing", delta.Value.ExpectedEndpointsCount)
	}
}

func TestDuplicateAddedTerminatesReconciler(t *testing.T) {
	proto := fake.NewHTTPProtocolPredicate()
	h := newHarness(t, proto, nil)
	defer h.cancel()

	c := model.Container{Name: "web"}
	h.send(model.KindContainer, model.Added, c.Name, c)
	recvContainer(t, h)

	h.send(model.KindContainer, model.Added, c.Name, c)

	select {
	case <-h.rec.Out.Containers.Out():
		t.Fatal("expected no further emissions after a duplicate Added terminates the reconciler")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestEndpointBeforeOwnerCausesNoEmission(t *testing.T) {
	proto := fake.NewHTTPProtocolPredicate()
	h := newHarness(t, proto, nil)
	defer h.cancel()

	ep := model.Endpoint{
		Name:      "api-ep",
		OwnerRefs: []model.OwnerRef{{Kind: model.KindExecutable, Name: "api"}},
		Spec:      model.EndpointSpec{ServiceName: "api-http", Address: "127.0.0.1", Port: 5123},
	}
	h.send(model.KindEndpoint, model.Added, ep.Name, ep)

	select {
	case delta := <-h.rec.Out.Executables.Out():
		t.Fatalf("unexpected emission for an endpoint whose owner hasn't arrived yet: %+v", delta)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNonHTTPServiceChangeCausesNoOwnerReEmission(t *testing.T) {
	proto := fake.NewHTTPProtocolPredicate()
	h := newHarness(t, proto, nil)
	defer h.cancel()

	svc := model.Service{Name: "web-tcp", Spec: model.ServiceSpec{Protocol: "tcp"}}
	h.send(model.KindService, model.Added, svc.Name, svc)

	c := model.Container{Name: "web", Annotations: map[string]string{
		model.AnnotationServiceProducer: `[{"service_name":"web-tcp"}]`,
	}}
	h.send(model.KindContainer, model.Added, c.Name, c)
	recvContainer(t, h)

	h.send(model.KindService, model.Modified, svc.Name, svc)

	select {
	case delta := <-h.rec.Out.Containers.Out():
		t.Fatalf("unexpected re-emission triggered by a non-HTTP service change: %+v", delta)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRuntimeIDReuseAcrossRestartSkipsReEnrichment(t *testing.T) {
	proto := fake.NewHTTPProtocolPredicate()
	h := newHarness(t, proto, nil)
	defer h.cancel()

	c := model.Container{Name: "db", Status: model.ContainerStatus{RuntimeID: "rt-restart"}}
	h.send(model.KindContainer, model.Added, c.Name, c)
	recvContainer(t, h) // pre-enrichment emission
	recvContainer(t, h) // post-enrichment re-emission, cache now populated for rt-restart

	h.send(model.KindContainer, model.Deleted, c.Name, c)
	recvContainer(t, h)

	h.send(model.KindContainer, model.Added, c.Name, c) // recreated with the same runtime id
	delta := recvContainer(t, h)

	found := false
	for _, e := range delta.Value.Environment {
		if e.Name == "A" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Environment = %v, want the cached env from the first enrichment immediately, with no re-enrichment", delta.Value.Environment)
	}

	select {
	case unexpected := <-h.rec.Out.Containers.Out():
		t.Fatalf("unexpected extra emission, likely a duplicate enrichment task: %+v", unexpected)
	case <-time.After(200 * time.Millisecond):
	}
}
