// Package prometheus exposes gate counters and the verify latency histogram
// as a client_golang Collector.
//
// Register [NewCollector] on an existing registry, or mount [NewHandler] to
// serve a private one. Counter names are tyx_*_total and the histogram is
// tyx_verify_latency_seconds.
package prometheus
