package tyx

import (
	"log/slog"
	"time"

	"github.com/kbajalc/tyx-core/internal/audit"
	"github.com/kbajalc/tyx-core/jwt"
)

// Gate authenticates and authorizes calls arriving over HTTP, internal or
// remote RPC, and platform events, and issues the tokens it later accepts.
//
// A Gate is immutable after [Builder.Build] and safe for concurrent use.
// Secrets and timeouts are read from [Config] on every call.
type Gate struct {
	cfg      Config
	opts     Options
	resolver *Resolver
	codec    *jwt.Codec
	logger   *slog.Logger
	now      func() time.Time
	metrics  *Metrics
	audit    *audit.Dispatcher
}

// Close flushes and stops the audit dispatcher.
func (g *Gate) Close() {
	if g == nil {
		return
	}
	if g.audit != nil {
		g.audit.Close()
	}
}

// AppID returns the application id the gate verifies tokens for.
func (g *Gate) AppID() string {
	if g == nil || g.cfg == nil {
		return ""
	}
	return g.cfg.AppID()
}

// AuditDropped reports audit events lost to a full buffer or a cancelled wait.
func (g *Gate) AuditDropped() uint64 {
	if g == nil || g.audit == nil {
		return 0
	}
	return g.audit.Dropped()
}

// AuditDelivered reports audit events handed to the sink.
func (g *Gate) AuditDelivered() uint64 {
	if g == nil || g.audit == nil {
		return 0
	}
	return g.audit.Delivered()
}

// MetricsSnapshot copies the gate counters. It is empty when metrics are disabled.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	if g == nil || g.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return g.metrics.Snapshot()
}

func (g *Gate) ready() bool {
	return g != nil && g.cfg != nil && g.codec != nil && g.resolver != nil
}

func (g *Gate) metricInc(id MetricID) {
	if g == nil || g.metrics == nil {
		return
	}
	g.metrics.Inc(id)
}

// record counts the outcome of one entry-point call.
func (g *Gate) record(success, failure MetricID, err error) {
	if err == nil {
		g.metricInc(success)
		return
	}
	g.metricInc(failure)
	switch KindOf(err) {
	case KindBadRequest:
		g.metricInc(MetricBadRequest)
	case KindUnauthorized:
		g.metricInc(MetricUnauthorized)
	case KindForbidden:
		g.metricInc(MetricForbidden)
	}
}
