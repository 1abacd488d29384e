// Package telemetry holds the Prometheus metrics and OpenTelemetry tracing
// shared by the reconciler and the feed.
//
// Metrics are registered through promauto against a caller-supplied
// registerer, so tests and embedding applications can keep them isolated:
//
//	reg := prometheus.NewRegistry()
//	m := telemetry.NewMetrics(telemetry.WithRegisterer(reg))
//	rec, _ := collection.New(list, row, collection.WithMetrics(m))
//
// Every Record method is safe to call on a nil *Metrics, which disables
// collection without nil checks at the call site.
//
// Tracing uses the global OpenTelemetry tracer provider. Configure it in
// main before rendering:
//
//	otel.SetTracerProvider(tp)
package telemetry
