package fake

import "devview/internal/model"

var _ model.HostEnvironment = (*HostEnvironment)(nil)

// HostEnvironment is a fake model.HostEnvironment returning a fixed name.
type HostEnvironment struct {
	CallRecorder

	Name string
}

func (h *HostEnvironment) ApplicationName() string {
	h.record("ApplicationName")
	return h.Name
}
