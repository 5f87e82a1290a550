package otel

import (
	"context"
	"sync"
	"testing"

	tyx "github.com/kbajalc/tyx-core"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu        sync.RWMutex
	snapshot  tyx.MetricsSnapshot
	dropped   uint64
	delivered uint64
}

func (f *fakeSource) MetricsSnapshot() tyx.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := tyx.MetricsSnapshot{
		Counters:   make(map[tyx.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[tyx.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		out.Histograms[k] = append([]uint64(nil), buckets...)
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func (f *fakeSource) AuditDelivered() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.delivered
}

func newReader(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func int64Value(t *testing.T, rm metricdata.ResourceMetrics, name string) (int64, bool) {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if len(data.DataPoints) > 0 {
					return data.DataPoints[0].Value, true
				}
			case metricdata.Gauge[int64]:
				if len(data.DataPoints) > 0 {
					return data.DataPoints[0].Value, true
				}
			}
		}
	}
	return 0, false
}

func TestExporterCollectsSnapshotValues(t *testing.T) {
	reader, provider := newReader(t)

	src := &fakeSource{
		snapshot: tyx.MetricsSnapshot{
			Counters: map[tyx.MetricID]uint64{
				tyx.MetricHTTPAuthSuccess: 3,
			},
			Histograms: map[tyx.MetricID][]uint64{
				tyx.MetricVerifyLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped:   1,
		delivered: 4,
	}

	exp, err := newExporter(provider.Meter("tyx-test"), src)
	if err != nil {
		t.Fatalf("newExporter failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	checks := map[string]int64{
		"tyx_http_auth_success_total":               3,
		"tyx_verify_latency_seconds_bucket_le_0_01": 2,
		"tyx_verify_latency_seconds_count":          8,
		"tyx_audit_dropped_total":                   1,
		"tyx_audit_delivered_total":                 4,
	}
	for name, want := range checks {
		got, ok := int64Value(t, rm, name)
		if !ok {
			t.Fatalf("metric %s not collected", name)
		}
		if got != want {
			t.Fatalf("%s = %d, want %d", name, got, want)
		}
	}
}

func TestExporterRejectsNilArguments(t *testing.T) {
	_, provider := newReader(t)

	if _, err := newExporter(provider.Meter("tyx-test"), nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
	if _, err := newExporter(nil, &fakeSource{}); err != ErrNilMeter {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
	if _, err := NewExporter(provider.Meter("tyx-test"), nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource for nil gate, got %v", err)
	}
}

func TestExporterConcurrentCollect(t *testing.T) {
	reader, provider := newReader(t)

	src := &fakeSource{
		snapshot: tyx.MetricsSnapshot{
			Counters:   map[tyx.MetricID]uint64{tyx.MetricTokenIssued: 1},
			Histograms: map[tyx.MetricID][]uint64{},
		},
	}

	exp, err := newExporter(provider.Meter("tyx-test"), src)
	if err != nil {
		t.Fatalf("newExporter failed: %v", err)
	}
	defer exp.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[tyx.MetricTokenIssued] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
