package fake

import (
	"context"

	"devview/internal/model"
)

var _ model.WatchSource[int] = (*WatchSource[int])(nil)

// WatchSource is a test-driven model.WatchSource[T]: Watch returns a
// channel that the test then feeds with Added/Modified/Deleted/Emit,
// simulating an orchestrator watch client without a real orchestrator.
type WatchSource[T any] struct {
	CallRecorder

	WatchErr error

	ch     chan model.WatchEvent[T]
	closed bool
}

// NewWatchSource creates a WatchSource with a buffered event channel, so
// a test can queue several events before Watch has even been called.
func NewWatchSource[T any]() *WatchSource[T] {
	return &WatchSource[T]{ch: make(chan model.WatchEvent[T], 64)}
}

// Watch implements model.WatchSource.
func (s *WatchSource[T]) Watch(ctx context.Context) (<-chan model.WatchEvent[T], error) {
	s.record("Watch")
	if s.WatchErr != nil {
		return nil, s.WatchErr
	}
	return s.ch, nil
}

// Emit pushes a raw event onto the stream.
func (s *WatchSource[T]) Emit(ev model.WatchEvent[T]) { s.ch <- ev }

// Added emits a WatchAdded event for obj.
func (s *WatchSource[T]) Added(obj T) {
	s.Emit(model.WatchEvent[T]{Type: model.WatchAdded, Object: obj})
}

// Modified emits a WatchModified event for obj.
func (s *WatchSource[T]) Modified(obj T) {
	s.Emit(model.WatchEvent[T]{Type: model.WatchModified, Object: obj})
}

// Deleted emits a WatchDeleted event for obj.
func (s *WatchSource[T]) Deleted(obj T) {
	s.Emit(model.WatchEvent[T]{Type: model.WatchDeleted, Object: obj})
}

// Fail emits a terminal WatchError event.
func (s *WatchSource[T]) Fail(err error) {
	s.Emit(model.WatchEvent[T]{Type: model.WatchError, Err: err})
}

// Close ends the stream, mimicking the orchestrator watch client
// exiting cleanly. Calls after the first are no-ops; Close is not safe
// for concurrent use.
func (s *WatchSource[T]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
