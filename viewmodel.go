package devview

import "devview/internal/model"

type (
	ViewKind      = model.ViewKind
	LogSourceKind = model.LogSourceKind
	LogSource     = model.LogSource
)

const (
	ViewContainer  = model.ViewContainer
	ViewExecutable = model.ViewExecutable
	ViewProject    = model.ViewProject
)

const (
	LogSourceDocker = model.LogSourceDocker
	LogSourceFile   = model.LogSourceFile
)

var (
	DockerLogSource = model.DockerLogSource
	FileLogSource   = model.FileLogSource
)

type (
	EnvironmentVariableView = model.EnvironmentVariableView
	ResourceBase            = model.ResourceBase
	ResourceView            = model.ResourceView
	ContainerView           = model.ContainerView
	ExecutableView          = model.ExecutableView
	ProjectView             = model.ProjectView
)
