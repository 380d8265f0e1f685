package reconcile

import (
	"context"
	"log/slog"

	"devview/internal/model"
)

func (r *Reconciler) processContainerChange(ctx context.Context, event model.ChangeType, c model.Container) error {
	changed, err := r.Store.Containers.Apply(event, c.Name, c)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if event == model.Deleted {
		r.Store.Assoc.Remove(model.KindContainer, c.Name)
		r.emitContainer(c, event)
		return nil
	}

	services, perr := model.ParseServiceProducer(c.Annotations)
	if perr != nil {
		slog.Warn("parse ServiceProducer annotation", "container", c.Name, "err", perr)
	}
	r.Store.Assoc.Set(model.KindContainer, c.Name, services)

	if c.Status.RuntimeID != "" {
		if _, cached := r.Store.Enrichment.Get(c.Status.RuntimeID); !cached && !r.Store.InFlight.Contains(c.Status.RuntimeID) {
			r.Store.InFlight.Add(c.Status.RuntimeID)
			r.Enricher.Schedule(ctx, c.Status.RuntimeID, c.Name)
			r.emit("enrich.scheduled", c.Status.RuntimeID)
		}
	}

	r.emitContainer(c, event)
	return nil
}

// processExecutableLike handles both non-project executables and
// projects: they share one primitive table and one associated-services
// key (spec.md classifies "project" purely as an emission-time view of
// an Executable, not a distinct owner kind — endpoint owner refs only
// ever name Container or Executable).
func (r *Reconciler) processExecutableLike(ctx context.Context, event model.ChangeType, e model.Executable, isProject bool) error {
	changed, err := r.Store.Executables.Apply(event, e.Name, e)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if event == model.Deleted {
		r.Store.Assoc.Remove(model.KindExecutable, e.Name)
		r.emitExecutable(e, event, isProject)
		return nil
	}

	services, perr := model.ParseServiceProducer(e.Annotations)
	if perr != nil {
		slog.Warn("parse ServiceProducer annotation", "executable", e.Name, "err", perr)
	}
	r.Store.Assoc.Set(model.KindExecutable, e.Name, services)

	r.emitExecutable(e, event, isProject)
	return nil
}

func (r *Reconciler) processEndpointChange(ctx context.Context, event model.ChangeType, ep model.Endpoint) error {
	changed, err := r.Store.Endpoints.Apply(event, ep.Name, ep)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	// Endpoints may arrive before their owner's own event; skip silently
	// and let the owner's later Added/Modified re-emit include it.
	for _, owner := range ep.OwnerRefs {
		switch owner.Kind {
		case model.KindContainer:
			if c, ok := r.Store.Containers.Get(owner.Name); ok {
				r.emitContainer(c, model.Modified)
			}
		case model.KindExecutable:
			if e, ok := r.Store.Executables.Get(owner.Name); ok {
				r.emitExecutable(e, model.Modified, e.IsProject())
			}
		}
	}
	return nil
}

func (r *Reconciler) processServiceChange(ctx context.Context, event model.ChangeType, s model.Service) error {
	changed, err := r.Store.Services.Apply(event, s.Name, s)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if _, ok := r.Proto.UsesHTTP(s); !ok {
		// Non-HTTP services don't contribute endpoints; nothing they
		// own can have gained or lost a reachable endpoint.
		return nil
	}

	for _, owner := range r.Store.Assoc.OwnersOf(s.Name) {
		switch owner.Kind {
		case model.KindContainer:
			if c, ok := r.Store.Containers.Get(owner.Name); ok {
				r.emitContainer(c, model.Modified)
			}
		case model.KindExecutable:
			if e, ok := r.Store.Executables.Get(owner.Name); ok {
				r.emitExecutable(e, model.Modified, e.IsProject())
			}
		}
	}
	return nil
}

func (r *Reconciler) emitContainer(c model.Container, event model.ChangeType) {
	source := c.EnvSpec
	if c.Status.RuntimeID != "" {
		if cached, ok := r.Store.Enrichment.Get(c.Status.RuntimeID); ok {
			source = cached
		}
	}
	env := model.BuildEnvironment(source, c.EnvSpec)

	endpoints := r.computeEndpoints(model.KindContainer, c.Name, "")
	expected := r.expectedEndpointsCount(model.KindContainer, c.Name)

	view := model.BuildContainerView(c, endpoints, expected, env)
	r.Out.Containers.Send(model.Change[model.ContainerView]{Type: event, Value: view})
	r.Out.Resources.Send(model.Change[model.ResourceView]{Type: event, Value: view})
}

func (r *Reconciler) emitExecutable(e model.Executable, event model.ChangeType, isProject bool) {
	env := model.BuildEnvironment(e.Status.EffectiveEnv, e.EnvSpec)

	projectPath := ""
	if isProject {
		projectPath = e.ProjectPath()
	}
	endpoints := r.computeEndpoints(model.KindExecutable, e.Name, projectPath)
	expected := r.expectedEndpointsCount(model.KindExecutable, e.Name)

	if isProject {
		view := model.BuildProjectView(e, endpoints, expected, env)
		r.Out.Projects.Send(model.Change[model.ProjectView]{Type: event, Value: view})
		r.Out.Resources.Send(model.Change[model.ResourceView]{Type: event, Value: view})
		return
	}

	view := model.BuildExecutableView(e, endpoints, expected, env)
	r.Out.Executables.Send(model.Change[model.ExecutableView]{Type: event, Value: view})
	r.Out.Resources.Send(model.Change[model.ResourceView]{Type: event, Value: view})
}
