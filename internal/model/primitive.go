// Package model holds the primitive and view-model types shared by every
// engine package. The root devview package re-exports them as type
// aliases (devview.Container = model.Container, etc.) so dashboard code
// imports one flat package while internal/reconcile, internal/store,
// internal/watch, and internal/fanout can depend on these types without
// an import cycle back through the root package.
package model

import "time"

// ObjectKind tags which primitive table a name belongs to.
type ObjectKind int

const (
	KindContainer ObjectKind = iota
	KindExecutable
	KindEndpoint
	KindService
)

func (k ObjectKind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindExecutable:
		return "executable"
	case KindEndpoint:
		return "endpoint"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// ChangeType is the kind of mutation an orchestrator watch event or a
// fan-out delta carries.
type ChangeType int

const (
	Added ChangeType = iota
	Modified
	Deleted
	Other
)

func (c ChangeType) String() string {
	switch c {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "other"
	}
}

// OwnerRef names the primitive that owns an endpoint.
type OwnerRef struct {
	Kind ObjectKind
	Name string
}

// Port is a single exposed container port.
type Port struct {
	Name     string
	Internal int
	External int
}

// EnvVar is a raw name/value pair as declared in a workload spec or
// reported by the runtime. Value is nil when a variable is declared by
// name only (pass-through from the host environment).
type EnvVar struct {
	Name  string
	Value *string
}

// ContainerStatus is the orchestrator-reported runtime status of a
// container.
type ContainerStatus struct {
	RuntimeID string // empty until the container runtime has assigned one
	State     string
}

// Container is a raw orchestrator-reported container object.
//
// Annotations is not part of the minimal shape the dashboard renders, but
// the orchestrator attaches it to every resource kind (containers
// included) and the reconciler reads AnnotationServiceProducer off it the
// same way it does for executables.
type Container struct {
	Name        string
	UID         string
	CreatedAt   time.Time
	Image       string
	Ports       []Port
	EnvSpec     []EnvVar
	OwnerRefs   []OwnerRef
	Status      ContainerStatus
	Annotations map[string]string
}

// ExecutableStatus is the orchestrator-reported runtime status of a
// plain executable or compilable project.
type ExecutableStatus struct {
	EffectiveEnv []EnvVar // nil until the process has actually started
	StdoutPath   string
	StderrPath   string
	PID          *int
	State        string
}

// AnnotationServiceProducer names the annotation whose JSON array value
// declares the services a container or executable feeds endpoints into.
const AnnotationServiceProducer = "ServiceProducer"

// AnnotationCSharpProjectPath names the annotation that classifies an
// executable as a compilable project and carries the project file path.
// It is a semantic tag agreed with the orchestrator, not a language
// marker: any executable carrying it is treated as a project regardless
// of what toolchain ultimately builds it.
const AnnotationCSharpProjectPath = "csharp-project-path"

// Executable is a raw orchestrator-reported executable object. An
// executable is classified as a project iff it carries the
// AnnotationCSharpProjectPath annotation.
type Executable struct {
	Name        string
	UID         string
	CreatedAt   time.Time
	ExePath     string
	WorkingDir  string
	Args        []string
	EnvSpec     []EnvVar
	Annotations map[string]string
	Status      ExecutableStatus
}

// IsProject reports whether e carries the project-path annotation.
func (e Executable) IsProject() bool {
	_, ok := e.Annotations[AnnotationCSharpProjectPath]
	return ok
}

// ProjectPath returns the project-path annotation value, or "" if e is
// not a project.
func (e Executable) ProjectPath() string {
	return e.Annotations[AnnotationCSharpProjectPath]
}

// EndpointSpec is the address a raw endpoint object exposes.
type EndpointSpec struct {
	ServiceName string
	Address     string
	Port        int
}

// Endpoint is a raw orchestrator-reported endpoint object.
type Endpoint struct {
	Name      string
	OwnerRefs []OwnerRef
	Spec      EndpointSpec
}

// ServiceSpec carries a service's declared protocol and any additional
// annotations the protocol predicate inspects.
type ServiceSpec struct {
	Protocol    string
	Annotations map[string]string
}

// Service is a raw orchestrator-reported service object.
type Service struct {
	Name string
	Spec ServiceSpec
}
