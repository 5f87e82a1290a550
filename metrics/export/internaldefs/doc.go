// Package internaldefs holds the metric names and bucket bounds shared by the
// Prometheus and OTel exporters, so both backends publish identical series.
package internaldefs
