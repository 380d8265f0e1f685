package fanout

import (
	"context"
	"testing"
	"time"

	"devview/internal/model"
)

func nameOf(v model.ContainerView) string { return v.Name }

func TestSubscribeSnapshotReflectsPriorDeltas(t *testing.T) {
	p := New(nameOf, 8)
	in := make(chan model.Change[model.ContainerView])

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx, in)

	in <- model.Change[model.ContainerView]{Type: model.Added, Value: model.ContainerView{ResourceBase: model.ResourceBase{Name: "web"}}}
	waitApplied(t, p, "web")

	sub := p.Subscribe(context.Background())
	if len(sub.Snapshot) != 1 || sub.Snapshot[0].Name != "web" {
		t.Fatalf("Snapshot = %v, want [web]", sub.Snapshot)
	}
}

func TestSubscribeStreamGetsSubsequentDeltas(t *testing.T) {
	p := New(nameOf, 8)
	in := make(chan model.Change[model.ContainerView])

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx, in)

	sub := p.Subscribe(context.Background())
	in <- model.Change[model.ContainerView]{Type: model.Added, Value: model.ContainerView{ResourceBase: model.ResourceBase{Name: "web"}}}

	select {
	case delta := <-sub.Stream:
		if delta.Value.Name != "web" {
			t.Fatalf("delta.Value.Name = %q, want web", delta.Value.Name)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delta")
	}
}

func TestDeletedRemovesFromCurrentState(t *testing.T) {
	p := New(nameOf, 8)
	in := make(chan model.Change[model.ContainerView])

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx, in)

	in <- model.Change[model.ContainerView]{Type: model.Added, Value: model.ContainerView{ResourceBase: model.ResourceBase{Name: "web"}}}
	waitApplied(t, p, "web")

	in <- model.Change[model.ContainerView]{Type: model.Deleted, Value: model.ContainerView{ResourceBase: model.ResourceBase{Name: "web"}}}
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		sub := p.Subscribe(context.Background())
		if len(sub.Snapshot) == 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("web still present in snapshot after Deleted")
}

func TestSlowSubscriberIsDroppedOnOverflow(t *testing.T) {
	p := New(nameOf, 1)
	in := make(chan model.Change[model.ContainerView])

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx, in)

	subCtx, subCancel := context.WithCancel(context.Background())
	defer subCancel()
	sub := p.Subscribe(subCtx)

	// Fill the subscriber's buffer without draining it, then overflow it.
	for i := 0; i < 5; i++ {
		in <- model.Change[model.ContainerView]{Type: model.Modified, Value: model.ContainerView{ResourceBase: model.ResourceBase{Name: "web"}}}
	}

	deadline := time.Now().Add(time.Second)
	for {
		select {
		case _, ok := <-sub.Stream:
			if !ok {
				return // closed: subscriber was dropped, as expected
			}
		case <-time.After(time.Until(deadline)):
			t.Fatal("overflowing subscriber's stream was never closed")
		}
	}
}

func TestUnsubscribeOnContextDone(t *testing.T) {
	p := New(nameOf, 8)
	in := make(chan model.Change[model.ContainerView])

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx, in)

	subCtx, subCancel := context.WithCancel(context.Background())
	sub := p.Subscribe(subCtx)
	subCancel()

	select {
	case _, ok := <-sub.Stream:
		if ok {
			t.Fatal("expected stream to close after subscriber ctx cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for unsubscribe to close the stream")
	}
}

func waitApplied(t *testing.T, p *Processor[model.ContainerView], name string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		sub := p.Subscribe(context.Background())
		for _, v := range sub.Snapshot {
			if v.Name == name {
				return
			}
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("%s never applied to processor state", name)
}
