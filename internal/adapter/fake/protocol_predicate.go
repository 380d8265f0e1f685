package fake

import "devview/internal/model"

var _ model.ProtocolPredicate = (*ProtocolPredicate)(nil)

// ProtocolPredicate is a fake model.ProtocolPredicate keyed by the raw
// protocol string a service declares.
type ProtocolPredicate struct {
	CallRecorder

	Schemes map[string]string // protocol -> URI scheme
}

// NewHTTPProtocolPredicate creates a ProtocolPredicate that treats "http"
// and "https" service protocols as HTTP, matching the addressable-URL
// schemes a dashboard would render.
func NewHTTPProtocolPredicate() *ProtocolPredicate {
	return &ProtocolPredicate{Schemes: map[string]string{"http": "http", "https": "https"}}
}

func (p *ProtocolPredicate) UsesHTTP(svc model.Service) (string, bool) {
	p.record("UsesHTTP", svc.Name)
	scheme, ok := p.Schemes[svc.Spec.Protocol]
	return scheme, ok
}
