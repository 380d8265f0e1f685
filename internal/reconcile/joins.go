package reconcile

import (
	"fmt"
	"sort"

	"devview/internal/model"
)

// computeEndpoints is the pure join spec.md §4.2 describes: for every
// endpoint owned by (kind, name), resolve its service and, if that
// service uses HTTP, append "{scheme}://{address}:{port}" — plus, for a
// project whose path resolves through the application model to a launch
// profile with a launch URL, "/{launch_url}" appended to that string.
//
// Endpoints are visited in a map (the raw store's Endpoint table), so
// the result is sorted for determinism; spec.md does not mandate an
// order.
func (r *Reconciler) computeEndpoints(kind model.ObjectKind, name, projectPath string) []string {
	var launch *model.LaunchProfile
	if projectPath != "" && r.Apps != nil {
		if proj, ok := r.Apps.TryGetProjectWithPath(projectPath); ok {
			profile := r.Apps.EffectiveLaunchProfile(proj)
			launch = &profile
		}
	}

	var endpoints []string
	r.Store.Endpoints.Range(func(_ string, ep model.Endpoint) {
		owns := false
		for _, owner := range ep.OwnerRefs {
			if owner.Kind == kind && owner.Name == name {
				owns = true
				break
			}
		}
		if !owns {
			return
		}

		svc, ok := r.Store.Services.Get(ep.Spec.ServiceName)
		if !ok {
			return
		}
		scheme, ok := r.Proto.UsesHTTP(svc)
		if !ok {
			return
		}

		url := fmt.Sprintf("%s://%s:%d", scheme, ep.Spec.Address, ep.Spec.Port)
		if launch != nil && launch.HasURL {
			url += "/" + launch.LaunchURL
		}
		endpoints = append(endpoints, url)
	})

	sort.Strings(endpoints)
	return endpoints
}

// expectedEndpointsCount parses the owner's declared ServiceProducer
// services (already captured in the associated-services index) and
// counts how many use HTTP. If any declared service is not yet present
// in the service table, the count is unknown (nil): subscribers render
// this as "Starting".
func (r *Reconciler) expectedEndpointsCount(kind model.ObjectKind, name string) *int {
	declared := r.Store.Assoc.Get(kind, name)

	count := 0
	for _, svcName := range declared {
		svc, ok := r.Store.Services.Get(svcName)
		if !ok {
			return nil
		}
		if _, ok := r.Proto.UsesHTTP(svc); ok {
			count++
		}
	}
	return &count
}
