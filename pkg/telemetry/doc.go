// Package telemetry instruments the reconciler.
//
// Metrics and Tracer both implement reconcile.Observer, so either (or both,
// through reconcile.Observers) can be passed to reconcile.WithObserver:
//
//	reg := prometheus.NewRegistry()
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	tr := telemetry.NewTracer()
//	engine := reconcile.New(m.Adapter(doc),
//	    reconcile.WithObserver(reconcile.Observers(m, tr)),
//	)
//
// Metrics collected:
//   - recon_operations_total: operations by op and status
//   - recon_operation_duration_seconds: operation latency by op
//   - recon_operation_errors_total: failed operations by op and error code
//   - recon_host_mutations_total: host mutations by mutation type
//
// Tracer starts one span per operation using the global OpenTelemetry
// tracer provider unless a tracer is supplied.
package telemetry
