package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"devview/internal/model"
	"golang.org/x/sync/errgroup"
)

type fakeSource[T any] struct {
	ch  chan model.WatchEvent[T]
	err error
}

func newFakeSource[T any]() *fakeSource[T] {
	return &fakeSource[T]{ch: make(chan model.WatchEvent[T], 16)}
}

func (s *fakeSource[T]) Watch(ctx context.Context) (<-chan model.WatchEvent[T], error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ch, nil
}

func newMultiplexer() (*Multiplexer, *fakeSource[model.Container], *fakeSource[model.Executable], *fakeSource[model.Endpoint], *fakeSource[model.Service]) {
	c := newFakeSource[model.Container]()
	e := newFakeSource[model.Executable]()
	ep := newFakeSource[model.Endpoint]()
	s := newFakeSource[model.Service]()
	return New(c, e, ep, s), c, e, ep, s
}

func TestMultiplexerMergesAllKinds(t *testing.T) {
	mux, containers, executables, endpoints, services := newMultiplexer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	mux.Start(gctx, g)

	containers.ch <- model.WatchEvent[model.Container]{Type: model.WatchAdded, Object: model.Container{Name: "web"}}
	executables.ch <- model.WatchEvent[model.Executable]{Type: model.WatchAdded, Object: model.Executable{Name: "worker"}}
	endpoints.ch <- model.WatchEvent[model.Endpoint]{Type: model.WatchAdded, Object: model.Endpoint{Name: "ep1"}}
	services.ch <- model.WatchEvent[model.Service]{Type: model.WatchAdded, Object: model.Service{Name: "svc1"}}

	seen := map[model.ObjectKind]bool{}
	deadline := time.After(2 * time.Second)
	for len(seen) < 4 {
		select {
		case msg := <-mux.Merged.Out():
			seen[msg.Kind] = true
		case <-deadline:
			t.Fatalf("only observed %v before timeout", seen)
		}
	}
}

func TestMultiplexerBookmarkAndErrorAreFiltered(t *testing.T) {
	mux, containers, _, _, _ := newMultiplexer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	mux.Start(gctx, g)

	containers.ch <- model.WatchEvent[model.Container]{Type: model.WatchBookmark}
	containers.ch <- model.WatchEvent[model.Container]{Type: model.WatchAdded, Object: model.Container{Name: "web"}}

	select {
	case msg := <-mux.Merged.Out():
		if msg.Name != "web" {
			t.Fatalf("first delivered message = %+v, want name web", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestMultiplexerOneKindFailureDoesNotStopOthers(t *testing.T) {
	mux, containers, executables, _, _ := newMultiplexer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	mux.Start(gctx, g)

	containers.ch <- model.WatchEvent[model.Container]{Type: model.WatchError, Err: errors.New("boom")}
	executables.ch <- model.WatchEvent[model.Executable]{Type: model.WatchAdded, Object: model.Executable{Name: "worker"}}

	select {
	case msg := <-mux.Merged.Out():
		if msg.Kind != model.KindExecutable {
			t.Fatalf("got kind %v, want executable", msg.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("executable kind stopped delivering after container kind failed")
	}

	cancel()
	if err := g.Wait(); err != nil {
		t.Fatalf("g.Wait() = %v, want nil (per-kind failures must not cancel the group)", err)
	}
}
