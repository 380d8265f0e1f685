package devview

import "devview/internal/model"

type (
	WatchEventType     = model.WatchEventType
	WatchEvent[T any]  = model.WatchEvent[T]
	WatchSource[T any] = model.WatchSource[T]
)

const (
	WatchAdded    = model.WatchAdded
	WatchModified = model.WatchModified
	WatchDeleted  = model.WatchDeleted
	WatchBookmark = model.WatchBookmark
	WatchError    = model.WatchError
)

type (
	ProcessSpec       = model.ProcessSpec
	ProcessResult     = model.ProcessResult
	ProcessHandle     = model.ProcessHandle
	ProcessRunner     = model.ProcessRunner
	LaunchProfile     = model.LaunchProfile
	Project           = model.Project
	ApplicationModel  = model.ApplicationModel
	ProtocolPredicate = model.ProtocolPredicate
	HostEnvironment   = model.HostEnvironment
)
