// Package telemetry exports signal propagation and layout statistics.
//
// Metrics and Tracer both implement reactive.Observer and layout.Observer,
// so one value can be attached to a runtime and an engine:
//
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	rt := reactive.NewRuntime(reactive.WithObserver(m))
//	engine := layout.NewEngine(layout.WithObserver(m))
//
// Metrics are Prometheus collectors registered through promauto. Tracer emits
// OpenTelemetry spans named lattice.propagate and lattice.layout.
package telemetry
