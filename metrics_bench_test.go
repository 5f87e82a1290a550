package tyx

import (
	"context"
	"testing"
	"time"

	"github.com/kbajalc/tyx-core/permission"
)

func BenchmarkMetricsInc(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.Inc(MetricHTTPAuthSuccess)
	}
}

func BenchmarkMetricsIncParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Inc(MetricHTTPAuthSuccess)
		}
	})
}

func BenchmarkMetricsObserveLatencyParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})
	d := 12 * time.Millisecond
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Observe(MetricVerifyLatency, d)
		}
	})
}

func BenchmarkHTTPAuthVerify(b *testing.B) {
	g, err := New(newTestConfig()).Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	defer g.Close()

	token, err := g.IssueToken(context.Background(), userRequest("Member", ""))
	if err != nil {
		b.Fatalf("IssueToken failed: %v", err)
	}
	req := HTTPRequest{RequestID: "bench", Headers: bearer(token)}
	perm := permission.New("orders.list", "Member")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := g.HTTPAuth(context.Background(), req, perm); err != nil {
			b.Fatal(err)
		}
	}
}
