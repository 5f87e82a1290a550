package prometheus

import (
	"errors"
	"net/http"

	tyx "github.com/kbajalc/tyx-core"
	"github.com/kbajalc/tyx-core/metrics/export/internaldefs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrNilSource is returned by NewHandler for a nil gate.
var ErrNilSource = errors.New("nil metrics source")

type metricsSource interface {
	MetricsSnapshot() tyx.MetricsSnapshot
	AuditDropped() uint64
	AuditDelivered() uint64
}

type counterDesc struct {
	id   tyx.MetricID
	desc *prometheus.Desc
}

type histogramDesc struct {
	id   tyx.MetricID
	desc *prometheus.Desc
}

// Collector reads a gate snapshot on every scrape. It holds no state of its own.
type Collector struct {
	source       metricsSource
	counters     []counterDesc
	histograms   []histogramDesc
	auditDropped   *prometheus.Desc
	auditDelivered *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector over gate.
func NewCollector(gate *tyx.Gate) *Collector {
	return newCollector(gate)
}

func newCollector(source metricsSource) *Collector {
	c := &Collector{
		source:     source,
		counters:   make([]counterDesc, 0, len(internaldefs.CounterDefs)),
		histograms: make([]histogramDesc, 0, len(internaldefs.HistogramDefs)),
		auditDropped: prometheus.NewDesc(
			internaldefs.AuditDroppedName,
			"Audit events dropped by dispatcher backpressure.",
			nil, nil,
		),
		auditDelivered: prometheus.NewDesc(
			internaldefs.AuditDeliveredName,
			"Audit events handed to the sink.",
			nil, nil,
		),
	}
	for _, def := range internaldefs.CounterDefs {
		c.counters = append(c.counters, counterDesc{id: def.ID, desc: prometheus.NewDesc(def.Name, def.Help, nil, nil)})
	}
	for _, def := range internaldefs.HistogramDefs {
		c.histograms = append(c.histograms, histogramDesc{id: def.ID, desc: prometheus.NewDesc(def.Name, def.Help, nil, nil)})
	}
	return c
}

// Describe sends the fixed set of descriptors.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.counters {
		ch <- m.desc
	}
	for _, h := range c.histograms {
		ch <- h.desc
	}
	ch <- c.auditDropped
	ch <- c.auditDelivered
}

// Collect emits only the audit counters when gate metrics are disabled.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.source.MetricsSnapshot()

	for _, m := range c.counters {
		v, ok := snapshot.Counters[m.id]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(m.desc, prometheus.CounterValue, float64(v))
	}

	for _, h := range c.histograms {
		raw, ok := snapshot.Histograms[h.id]
		if !ok {
			continue
		}
		normalized := internaldefs.NormalizeBuckets(raw)
		cumulative := internaldefs.CumulativeBuckets(normalized)
		buckets := make(map[float64]uint64, len(internaldefs.HistogramUpperBounds))
		for i, bound := range internaldefs.HistogramUpperBounds {
			buckets[bound] = cumulative[i]
		}
		ch <- prometheus.MustNewConstHistogram(
			h.desc,
			cumulative[len(cumulative)-1],
			internaldefs.ApproxSum(normalized),
			buckets,
		)
	}

	ch <- prometheus.MustNewConstMetric(c.auditDropped, prometheus.CounterValue, float64(c.source.AuditDropped()))
	ch <- prometheus.MustNewConstMetric(c.auditDelivered, prometheus.CounterValue, float64(c.source.AuditDelivered()))
}

// NewHandler registers a Collector for gate on a private registry and returns
// the scrape handler for it.
func NewHandler(gate *tyx.Gate) (http.Handler, error) {
	if gate == nil {
		return nil, ErrNilSource
	}
	return handlerFor(newCollector(gate))
}

func handlerFor(c *Collector) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}
