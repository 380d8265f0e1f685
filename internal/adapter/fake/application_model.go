package fake

import "devview/internal/model"

var _ model.ApplicationModel = (*ApplicationModel)(nil)

// ApplicationModel is a fake model.ApplicationModel backed by two maps a
// test populates directly.
type ApplicationModel struct {
	CallRecorder

	Projects       map[string]model.Project       // keyed by project path
	LaunchProfiles map[string]model.LaunchProfile // keyed by Project.Path
}

// NewApplicationModel creates an empty ApplicationModel.
func NewApplicationModel() *ApplicationModel {
	return &ApplicationModel{
		Projects:       make(map[string]model.Project),
		LaunchProfiles: make(map[string]model.LaunchProfile),
	}
}

// AddProject registers a project and its launch profile in one call.
func (a *ApplicationModel) AddProject(path string, profile model.LaunchProfile) {
	a.Projects[path] = model.Project{Path: path}
	a.LaunchProfiles[path] = profile
}

func (a *ApplicationModel) TryGetProjectWithPath(path string) (model.Project, bool) {
	a.record("TryGetProjectWithPath", path)
	p, ok := a.Projects[path]
	return p, ok
}

func (a *ApplicationModel) EffectiveLaunchProfile(p model.Project) model.LaunchProfile {
	a.record("EffectiveLaunchProfile", p.Path)
	return a.LaunchProfiles[p.Path]
}
