package model

import "encoding/json"

type serviceProducerEntry struct {
	ServiceName string `json:"service_name"`
}

// ParseServiceProducer reads the AnnotationServiceProducer annotation, a
// JSON array of {"service_name": "..."} objects, and returns the declared
// service names in order. A missing annotation yields (nil, nil).
func ParseServiceProducer(annotations map[string]string) ([]string, error) {
	raw, ok := annotations[AnnotationServiceProducer]
	if !ok || raw == "" {
		return nil, nil
	}

	var entries []serviceProducerEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.ServiceName != "" {
			names = append(names, e.ServiceName)
		}
	}
	return names, nil
}
