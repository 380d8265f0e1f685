package devview

import "devview/internal/model"

// BuildEnvironment, BuildContainerView, BuildExecutableView, and
// BuildProjectView are the pure conversions projecting a primitive plus
// its already-joined endpoints/expected-count/environment into a view
// model (spec.md §2 "Types & conversions"). The reconciler is their only
// caller; they're re-exported here because they operate on, and return,
// public devview types.
var (
	BuildEnvironment    = model.BuildEnvironment
	BuildContainerView  = model.BuildContainerView
	BuildExecutableView = model.BuildExecutableView
	BuildProjectView    = model.BuildProjectView
)
