package model

import "context"

// WatchEventType is the kind of event delivered on a raw orchestrator
// watch stream. Bookmark and Error events are recognized here so the
// watch multiplexer can filter them; they never reach the reconciler.
type WatchEventType int

const (
	WatchAdded WatchEventType = iota
	WatchModified
	WatchDeleted
	WatchBookmark
	WatchError
)

// WatchEvent is a single tuple delivered by a WatchSource.
type WatchEvent[T any] struct {
	Type   WatchEventType
	Object T
	Err    error // set when Type == WatchError
}

// WatchSource is the orchestrator watch client's contract for one
// primitive kind: a lazy, infinite sequence of change events. The
// returned channel is closed when the watch ends (context cancellation
// or an unrecoverable error already reported via a WatchError event).
type WatchSource[T any] interface {
	Watch(ctx context.Context) (<-chan WatchEvent[T], error)
}

// ProcessSpec describes a subprocess invocation the way the enricher's
// process runner port expects it.
type ProcessSpec struct {
	Exe            string
	Argv           []string
	OnStdout       func(line string)
	OnStderr       func(line string)
	KillTree       bool
	ThrowOnNonzero bool
}

// ProcessResult is the terminal outcome of a subprocess run.
type ProcessResult struct {
	ExitCode int
}

// ProcessHandle is a disposable handle to a running subprocess.
type ProcessHandle interface {
	Wait(ctx context.Context) (ProcessResult, error)
	Close() error
}

// ProcessRunner is the abstracted subprocess runner the enricher uses to
// invoke the container runtime CLI.
type ProcessRunner interface {
	Run(ctx context.Context, spec ProcessSpec) (ProcessHandle, error)
}

// LaunchProfile is a project's effective launch configuration.
type LaunchProfile struct {
	LaunchURL string
	HasURL    bool
}

// Project is an application-model project resolved from a project path.
type Project struct {
	Path string
}

// ApplicationModel resolves a project-path annotation to a project and
// its effective launch profile, used to append a launch-relative path to
// a project's HTTP endpoint.
type ApplicationModel interface {
	TryGetProjectWithPath(path string) (Project, bool)
	EffectiveLaunchProfile(p Project) LaunchProfile
}

// ProtocolPredicate decides whether a service carries an HTTP protocol
// and, if so, which URI scheme it should be addressed with.
type ProtocolPredicate interface {
	UsesHTTP(svc Service) (scheme string, ok bool)
}

// HostEnvironment supplies the host process's application name.
type HostEnvironment interface {
	ApplicationName() string
}
