package model

import "time"

// ViewKind tags which concrete view model a ResourceView wraps.
type ViewKind int

const (
	ViewContainer ViewKind = iota
	ViewExecutable
	ViewProject
)

func (k ViewKind) String() string {
	switch k {
	case ViewContainer:
		return "container"
	case ViewExecutable:
		return "executable"
	case ViewProject:
		return "project"
	default:
		return "unknown"
	}
}

// LogSourceKind distinguishes where a resource's logs come from.
type LogSourceKind int

const (
	LogSourceDocker LogSourceKind = iota
	LogSourceFile
)

// LogSource points a dashboard log viewer at either a running container
// (by runtime id) or a pair of redirected stdout/stderr files.
type LogSource struct {
	Kind       LogSourceKind
	RuntimeID  string // set when Kind == LogSourceDocker
	StdoutPath string // set when Kind == LogSourceFile
	StderrPath string // set when Kind == LogSourceFile
}

// DockerLogSource builds a LogSource pointing at a running container.
func DockerLogSource(runtimeID string) LogSource {
	return LogSource{Kind: LogSourceDocker, RuntimeID: runtimeID}
}

// FileLogSource builds a LogSource pointing at redirected process output.
func FileLogSource(stdout, stderr string) LogSource {
	return LogSource{Kind: LogSourceFile, StdoutPath: stdout, StderrPath: stderr}
}

// EnvironmentVariableView is a single environment entry as rendered to
// subscribers, annotated with whether it originated from the workload's
// declared spec.
type EnvironmentVariableView struct {
	Name     string
	Value    *string
	FromSpec bool
}

// ResourceBase holds the fields common to every ResourceView.
type ResourceBase struct {
	Name                   string
	UID                    string
	NamespacedName         string
	CreatedAt              time.Time
	State                  string
	ExpectedEndpointsCount *int // nil renders as "unknown" / "Starting"
	Endpoints              []string
	Environment            []EnvironmentVariableView
	LogSource              LogSource
}

// ResourceView is the common shape shared by ContainerView, ExecutableView,
// and ProjectView. The aggregate resource stream carries this interface;
// per-kind streams carry the refined concrete type.
type ResourceView interface {
	Base() ResourceBase
	ResourceKind() ViewKind
}

// ContainerView is the denormalized projection of a Container.
type ContainerView struct {
	ResourceBase
	ContainerID *string // set once the runtime has assigned an id
	Image       string
	Ports       []Port
}

func (v ContainerView) Base() ResourceBase     { return v.ResourceBase }
func (v ContainerView) ResourceKind() ViewKind { return ViewContainer }

// ExecutableView is the denormalized projection of a plain Executable.
type ExecutableView struct {
	ResourceBase
	PID        *int
	ExePath    string
	WorkingDir string
	Args       []string
}

func (v ExecutableView) Base() ResourceBase     { return v.ResourceBase }
func (v ExecutableView) ResourceKind() ViewKind { return ViewExecutable }

// ProjectView is the denormalized projection of an Executable classified
// as a compilable project.
type ProjectView struct {
	ResourceBase
	PID         *int
	ProjectPath string
}

func (v ProjectView) Base() ResourceBase     { return v.ResourceBase }
func (v ProjectView) ResourceKind() ViewKind { return ViewProject }

var (
	_ ResourceView = ContainerView{}
	_ ResourceView = ExecutableView{}
	_ ResourceView = ProjectView{}
)
