package internaldefs

import (
	tyx "github.com/kbajalc/tyx-core"
)

// CounterDef binds a gate counter to its exported name.
type CounterDef struct {
	ID   tyx.MetricID
	Name string
	Help string
}

// HistogramDef binds a gate histogram to its exported name.
type HistogramDef struct {
	ID   tyx.MetricID
	Name string
	Help string
}

// Audit counters exported by every backend from Gate.AuditDropped and
// Gate.AuditDelivered.
const (
	AuditDroppedName   = "tyx_audit_dropped_total"
	AuditDeliveredName = "tyx_audit_delivered_total"
)

// CounterDefs lists every exported gate counter.
var CounterDefs = []CounterDef{
	{ID: tyx.MetricHTTPAuthSuccess, Name: "tyx_http_auth_success_total", Help: "HTTP calls admitted by the gate."},
	{ID: tyx.MetricHTTPAuthFailure, Name: "tyx_http_auth_failure_total", Help: "HTTP calls rejected by the gate."},
	{ID: tyx.MetricRemoteAuthSuccess, Name: "tyx_remote_auth_success_total", Help: "Internal and remote RPC calls admitted."},
	{ID: tyx.MetricRemoteAuthFailure, Name: "tyx_remote_auth_failure_total", Help: "Internal and remote RPC calls rejected."},
	{ID: tyx.MetricEventAuthSuccess, Name: "tyx_event_auth_success_total", Help: "Platform events admitted."},
	{ID: tyx.MetricEventAuthFailure, Name: "tyx_event_auth_failure_total", Help: "Platform events rejected."},
	{ID: tyx.MetricTokenIssued, Name: "tyx_token_issued_total", Help: "Tokens minted by IssueToken."},
	{ID: tyx.MetricTokenIssueFailure, Name: "tyx_token_issue_failure_total", Help: "IssueToken calls that failed."},
	{ID: tyx.MetricTokenRenewed, Name: "tyx_token_renewed_total", Help: "User tokens renewed during verification."},
	{ID: tyx.MetricDebugFallback, Name: "tyx_debug_fallback_total", Help: "Loopback calls served with a synthetic debug identity."},
	{ID: tyx.MetricPublicTokenIgnored, Name: "tyx_public_token_ignored_total", Help: "Public calls whose bearer token was ignored."},
	{ID: tyx.MetricBadRequest, Name: "tyx_bad_request_total", Help: "Rejections classified as bad request."},
	{ID: tyx.MetricUnauthorized, Name: "tyx_unauthorized_total", Help: "Rejections classified as unauthorized."},
	{ID: tyx.MetricForbidden, Name: "tyx_forbidden_total", Help: "Rejections classified as forbidden."},
}

// HistogramDefs lists the exported gate histograms.
var HistogramDefs = []HistogramDef{
	{ID: tyx.MetricVerifyLatency, Name: "tyx_verify_latency_seconds", Help: "Token verification latency."},
}

// HistogramUpperBounds are the finite bucket bounds in seconds. The last gate
// bucket is the +Inf overflow.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket for backends without native histograms.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals. The last
// element is the sample count.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

// ApproxSum estimates the histogram sum from bucket upper bounds. The
// overflow bucket is counted at the last finite bound.
func ApproxSum(raw [8]uint64) float64 {
	var sum float64
	for i, n := range raw {
		bound := HistogramUpperBounds[len(HistogramUpperBounds)-1]
		if i < len(HistogramUpperBounds) {
			bound = HistogramUpperBounds[i]
		}
		sum += float64(n) * bound
	}
	return sum
}
