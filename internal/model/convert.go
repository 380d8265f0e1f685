package model

import "sort"

// BuildEnvironment projects a raw environment source list into sorted
// view models. from_spec is true iff a variable's name appears, by exact
// match, in specSource. source and specSource may be the same slice.
func BuildEnvironment(source, specSource []EnvVar) []EnvironmentVariableView {
	inSpec := make(map[string]bool, len(specSource))
	for _, e := range specSource {
		if e.Name != "" {
			inSpec[e.Name] = true
		}
	}

	out := make([]EnvironmentVariableView, 0, len(source))
	for _, e := range source {
		if e.Name == "" {
			continue
		}
		out = append(out, EnvironmentVariableView{
			Name:     e.Name,
			Value:    e.Value,
			FromSpec: inSpec[e.Name],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BuildContainerView projects a Container plus its already-joined
// endpoints/expected-count/environment into a ContainerView.
func BuildContainerView(c Container, endpoints []string, expected *int, env []EnvironmentVariableView) ContainerView {
	var id *string
	if c.Status.RuntimeID != "" {
		rid := c.Status.RuntimeID
		id = &rid
	}
	return ContainerView{
		ResourceBase: ResourceBase{
			Name:                   c.Name,
			UID:                    c.UID,
			NamespacedName:         c.Name,
			CreatedAt:              c.CreatedAt,
			State:                  c.Status.State,
			ExpectedEndpointsCount: expected,
			Endpoints:              endpoints,
			Environment:            env,
			LogSource:              DockerLogSource(c.Status.RuntimeID),
		},
		ContainerID: id,
		Image:       c.Image,
		Ports:       c.Ports,
	}
}

// BuildExecutableView projects a non-project Executable into an
// ExecutableView.
func BuildExecutableView(e Executable, endpoints []string, expected *int, env []EnvironmentVariableView) ExecutableView {
	return ExecutableView{
		ResourceBase: ResourceBase{
			Name:                   e.Name,
			UID:                    e.UID,
			NamespacedName:         e.Name,
			CreatedAt:              e.CreatedAt,
			State:                  e.Status.State,
			ExpectedEndpointsCount: expected,
			Endpoints:              endpoints,
			Environment:            env,
			LogSource:              FileLogSource(e.Status.StdoutPath, e.Status.StderrPath),
		},
		PID:        e.Status.PID,
		ExePath:    e.ExePath,
		WorkingDir: e.WorkingDir,
		Args:       e.Args,
	}
}

// BuildProjectView projects a project-classified Executable into a
// ProjectView.
func BuildProjectView(e Executable, endpoints []string, expected *int, env []EnvironmentVariableView) ProjectView {
	return ProjectView{
		ResourceBase: ResourceBase{
			Name:                   e.Name,
			UID:                    e.UID,
			NamespacedName:         e.Name,
			CreatedAt:              e.CreatedAt,
			State:                  e.Status.State,
			ExpectedEndpointsCount: expected,
			Endpoints:              endpoints,
			Environment:            env,
			LogSource:              FileLogSource(e.Status.StdoutPath, e.Status.StderrPath),
		},
		PID:         e.Status.PID,
		ProjectPath: e.ProjectPath(),
	}
}
