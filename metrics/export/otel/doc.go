// Package otel publishes gate counters through an OpenTelemetry Meter.
//
// Each counter becomes an Int64ObservableCounter. The verify latency histogram
// is flattened into one cumulative gauge per bucket plus a count gauge. The
// caller owns the MeterProvider.
package otel
