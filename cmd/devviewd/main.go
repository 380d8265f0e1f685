// Command devviewd is a minimal bootstrap binary for exercising the
// devview reconciliation engine outside of an actual dev-workload
// orchestrator: it wires the engine to fake watch sources, application
// model, protocol predicate, and host environment, then prints every
// view-model delta it observes to stdout as it reconciles.
//
// A production embedder does not use this binary; it links devview
// directly and supplies its own real WatchSource/ProcessRunner/
// ApplicationModel/ProtocolPredicate/HostEnvironment implementations
// (see internal/adapter/exec for the one real collaborator this module
// does provide, the subprocess-based ProcessRunner).
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"devview"
	"devview/config"
	realexec "devview/internal/adapter/exec"
	"devview/internal/adapter/fake"
	"devview/internal/logging"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var debug bool
	var appName string

	cmd := &cobra.Command{
		Use:   "devviewd",
		Short: "Run the devview reconciliation engine against fake watch sources",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelInfo
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(level)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, appName)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&appName, "app-name", "sample.AppHost", "Host application name to report")
	return cmd
}

func run(ctx context.Context, appName string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	provider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(provider)
	defer provider.Shutdown(context.Background())
	tracer := otel.Tracer("devviewd")

	sources := devview.Sources{
		Containers:  fake.NewWatchSource[devview.Container](),
		Executables: fake.NewWatchSource[devview.Executable](),
		Endpoints:   fake.NewWatchSource[devview.Endpoint](),
		Services:    fake.NewWatchSource[devview.Service](),
	}

	engine := devview.New(
		cfg,
		sources,
		realexec.Runner{},
		fake.NewApplicationModel(),
		fake.NewHTTPProtocolPredicate(),
		&fake.HostEnvironment{Name: appName},
		tracer,
	)

	g, gctx := errgroup.WithContext(ctx)
	engine.Start(gctx)

	resources := engine.Resources(gctx)
	slog.Info("devviewd started", "app", engine.ApplicationName(), "snapshot_size", len(resources.Snapshot))

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case delta, ok := <-resources.Stream:
				if !ok {
					return nil
				}
				logDelta(delta)
			}
		}
	})

	<-gctx.Done()
	if err := engine.Stop(); err != nil {
		slog.Error("engine stop", "err", err)
	}
	return g.Wait()
}

func logDelta(delta devview.Change[devview.ResourceView]) {
	base := delta.Value.Base()
	payload, _ := json.Marshal(struct {
		Type string `json:"type"`
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{Type: delta.Type.String(), Kind: delta.Value.ResourceKind().String(), Name: base.Name})
	os.Stdout.Write(payload)
	os.Stdout.Write([]byte("\n"))
}
