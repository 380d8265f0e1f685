// Package devview reconciles a heterogeneous fleet of developer-mode
// workloads — containers, plain executables, and compilable-project
// executables — into a live, denormalized view-model stream.
//
// The engine multiplexes independent watch streams of primitive
// orchestrator objects, cross-joins them against services and endpoints,
// enriches containers by out-of-band inspection of the container runtime,
// and fans the resulting changes out to any number of subscribers with
// snapshot-plus-delta semantics. It is purely observational: it never
// persists state across restarts and never mutates orchestrator state.
package devview
