package devview

import "devview/internal/model"

// ParseServiceProducer reads the AnnotationServiceProducer annotation, a
// JSON array of {"service_name": "..."} objects, and returns the
// declared service names in order.
var ParseServiceProducer = model.ParseServiceProducer
