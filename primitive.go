package devview

import "devview/internal/model"

// Primitive object kinds and change types (spec.md §3).
type (
	ObjectKind = model.ObjectKind
	ChangeType = model.ChangeType
)

const (
	KindContainer  = model.KindContainer
	KindExecutable = model.KindExecutable
	KindEndpoint   = model.KindEndpoint
	KindService    = model.KindService
)

const (
	Added    = model.Added
	Modified = model.Modified
	Deleted  = model.Deleted
	Other    = model.Other
)

// Primitive object types.
type (
	OwnerRef         = model.OwnerRef
	Port             = model.Port
	EnvVar           = model.EnvVar
	ContainerStatus  = model.ContainerStatus
	Container        = model.Container
	ExecutableStatus = model.ExecutableStatus
	Executable       = model.Executable
	EndpointSpec     = model.EndpointSpec
	Endpoint         = model.Endpoint
	ServiceSpec      = model.ServiceSpec
	Service          = model.Service
)

// Annotation keys the reconciler reads off primitive objects.
const (
	AnnotationServiceProducer   = model.AnnotationServiceProducer
	AnnotationCSharpProjectPath = model.AnnotationCSharpProjectPath
)
