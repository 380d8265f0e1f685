// Package enrich runs one-shot container-runtime inspections. For each
// newly observed container with a runtime id, the reconciler schedules a
// single task here that shells out to the container runtime, harvests
// environment variables, and signals completion so the reconciler can
// re-emit that container's view model with the enriched environment.
//
// Grounded on the teacher's platform/corrorun.Exec: exec.CommandContext,
// captured stdout, guaranteed resource release on every exit path,
// cancellation aborting the wait. The enricher's runner differs only in
// shape — a single bounded request/response call instead of a
// long-lived supervised child process — so it drops Exec's Start/Stop
// lifecycle and keeps the "always release resources, cancellation
// aborts the wait" discipline.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"devview/internal/model"
	"devview/internal/store"
	"devview/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
)

// Done is delivered on the enricher's completion queue once an
// inspection finishes successfully, so the reconciler can re-emit the
// container's view model with its now-cached environment.
type Done struct {
	ContainerName string
}

// Enricher launches and tracks one-shot container inspections.
type Enricher struct {
	Runner       model.ProcessRunner
	Cache        *store.EnrichmentCache
	DockerBinary string
	Timeout      time.Duration
	Tracer       telemetry.Tracer

	done chan Done
	wg   sync.WaitGroup
}

// New creates an Enricher. dockerBinary defaults to "docker" and timeout
// to 30s (spec.md §4.3) when zero-valued.
func New(runner model.ProcessRunner, cache *store.EnrichmentCache, dockerBinary string, timeout time.Duration, tracer telemetry.Tracer) *Enricher {
	if dockerBinary == "" {
		dockerBinary = "docker"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Enricher{
		Runner:       runner,
		Cache:        cache,
		DockerBinary: dockerBinary,
		Timeout:      timeout,
		Tracer:       tracer,
		done:         make(chan Done),
	}
}

// Done returns the channel completion notifications arrive on.
func (e *Enricher) Done() <-chan Done { return e.done }

// Schedule launches a one-shot inspection of runtimeID in the
// background. It must be called at most once per runtimeID (the
// reconciler enforces this via store.InFlightSet). The goroutine it
// launches is tracked so Wait can join it.
func (e *Enricher) Schedule(ctx context.Context, runtimeID, containerName string) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(ctx, runtimeID, containerName)
	}()
}

// Wait blocks until every goroutine Schedule launched has returned. The
// engine calls this as part of Stop, after cancelling ctx, so Stop joins
// enrichment tasks the same way it joins the watchers and reconciler.
func (e *Enricher) Wait() {
	e.wg.Wait()
}

func (e *Enricher) run(ctx context.Context, runtimeID, containerName string) {
	attrs := append(telemetry.ResourceAttrs("container", containerName), attribute.String("runtime_id", runtimeID))
	err := telemetry.Span(ctx, e.Tracer, "devview.enrich", attrs, func(spanCtx context.Context) error {
		env, err := e.inspect(spanCtx, runtimeID)
		if err != nil {
			slog.Error("container enrichment failed", "container", containerName, "runtime_id", runtimeID, "err", err)
			return err
		}
		e.Cache.Set(runtimeID, env)
		return nil
	})
	if err != nil {
		return
	}

	select {
	case e.done <- Done{ContainerName: containerName}:
	case <-ctx.Done():
	}
}

func (e *Enricher) inspect(ctx context.Context, runtimeID string) ([]model.EnvVar, error) {
	waitCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	var stdout strings.Builder
	spec := model.ProcessSpec{
		Exe:  e.DockerBinary,
		Argv: []string{"container", "inspect", `--format={{json .Config.Env}}`, runtimeID},
		OnStdout: func(line string) {
			stdout.WriteString(line)
		},
	}

	handle, err := e.Runner.Run(waitCtx, spec)
	if err != nil {
		return nil, fmt.Errorf("start docker inspect: %w", err)
	}
	defer handle.Close()

	result, err := handle.Wait(waitCtx)
	if err != nil {
		return nil, fmt.Errorf("wait for docker inspect: %w", err)
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("docker inspect exited %d", result.ExitCode)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return nil, fmt.Errorf("docker inspect produced no output")
	}

	var pairs []string
	if err := json.Unmarshal([]byte(out), &pairs); err != nil {
		return nil, fmt.Errorf("parse docker inspect output: %w", err)
	}

	env := make([]model.EnvVar, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		v := value
		env = append(env, model.EnvVar{Name: name, Value: &v})
	}
	return env, nil
}
