package devview

import "devview/internal/model"

// Change is a single delta emitted on a fan-out stream.
type Change[V any] = model.Change[V]

// Monitor is the subscription handle returned by Containers/Executables/
// Projects/Resources: an ordered snapshot of the current state taken
// atomically with the start of an ordered stream of subsequent deltas.
// The stream is buffered per subscriber (config Channels.SubscriberBuffer);
// a subscriber that falls that far behind is dropped and its stream closed.
type Monitor[V any] = model.Monitor[V]
