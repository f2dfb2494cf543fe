package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestTelemetry provides in-memory telemetry for testing.
type TestTelemetry struct {
	*Telemetry

	Reader *sdkmetric.ManualReader
}

// NewTestTelemetry creates telemetry with an in-memory metric reader.
func NewTestTelemetry() *TestTelemetry {
	cfg := NewDefaultConfig()
	cfg.Enabled = true

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
	)

	t := &Telemetry{
		config:        cfg,
		meterProvider: mp,
	}
	t.healthy.Store(true)

	return &TestTelemetry{
		Telemetry: t,
		Reader:    reader,
	}
}

// Collect gathers all recorded metrics from the manual reader.
func (t *TestTelemetry) Collect(tb testing.TB) metricdata.ResourceMetrics {
	tb.Helper()
	var rm metricdata.ResourceMetrics
	if err := t.Reader.Collect(context.Background(), &rm); err != nil {
		tb.Fatalf("collecting metrics: %v", err)
	}
	return rm
}

// CounterValue returns the summed value of an Int64 counter across all
// attribute sets, or 0 if the instrument recorded nothing.
func (t *TestTelemetry) CounterValue(tb testing.TB, name string) int64 {
	tb.Helper()
	return t.counterSum(tb, name, nil)
}

// CounterValueWith returns the summed value of an Int64 counter restricted
// to data points carrying the given attribute.
func (t *TestTelemetry) CounterValueWith(tb testing.TB, name string, attr attribute.KeyValue) int64 {
	tb.Helper()
	return t.counterSum(tb, name, &attr)
}

func (t *TestTelemetry) counterSum(tb testing.TB, name string, attr *attribute.KeyValue) int64 {
	tb.Helper()
	rm := t.Collect(tb)

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				tb.Fatalf("metric %q is %T, not an int64 sum", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				if attr != nil {
					if v, has := dp.Attributes.Value(attr.Key); !has || v != attr.Value {
						continue
					}
				}
				total += dp.Value
			}
		}
	}
	return total
}

// HistogramCount returns the total number of recordings in a Float64
// histogram across all attribute sets.
func (t *TestTelemetry) HistogramCount(tb testing.TB, name string) uint64 {
	tb.Helper()
	rm := t.Collect(tb)

	var count uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				tb.Fatalf("metric %q is %T, not a float64 histogram", name, m.Data)
			}
			for _, dp := range hist.DataPoints {
				count += dp.Count
			}
		}
	}
	return count
}
