// Package telemetry provides OpenTelemetry metrics for gitcorpus.
//
// # Overview
//
// This package exports pipeline metrics through the OpenTelemetry Go SDK to
// an OTLP/gRPC endpoint, typically an OTEL Collector in front of a
// Prometheus-compatible backend. Temporality is cumulative for that reason.
//
// # Usage
//
// Create a telemetry instance and the pipeline instrument set:
//
//	cfg := telemetry.NewDefaultConfig()
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(ctx)
//
//	metrics, err := tel.PipelineMetrics()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	metrics.RepoProcessed(ctx)
//	metrics.CommitSkipped(ctx, "merge")
//
// All PipelineMetrics methods accept a nil receiver, so callers can wire a
// nil *PipelineMetrics when telemetry is disabled and skip every call site
// check.
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  service_name: "gitcorpus"
//	  export_interval: "15s"
//
// # Error Handling
//
// Telemetry failures do not crash the pipeline. If the exporter cannot be
// initialized, the instance degrades gracefully and hands out no-op
// instruments. Health() reports the degraded state for the final summary.
//
// # Testing
//
// Use TestTelemetry with an in-memory reader:
//
//	tt := telemetry.NewTestTelemetry()
//	metrics, _ := telemetry.NewPipelineMetrics(tt.Meter("test"))
//	metrics.RepoProcessed(ctx)
//	got := tt.CounterValue(t, "gitcorpus.repos.processed")
package telemetry
