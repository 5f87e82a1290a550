package audit

import (
	"context"
	"log/slog"
	"time"
)

// Event is one authentication decision taken by the gate.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	RequestID string            `json:"request_id,omitempty"`
	Method    string            `json:"method,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	Issuer    string            `json:"issuer,omitempty"`
	Role      string            `json:"role,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// LogValue renders the event as a slog group, omitting empty fields.
func (e Event) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 12)
	attrs = append(attrs,
		slog.Time("timestamp", e.Timestamp),
		slog.String("event_type", e.EventType),
		slog.Bool("success", e.Success),
	)
	for _, kv := range [...]struct{ k, v string }{
		{"request_id", e.RequestID},
		{"method", e.Method},
		{"subject", e.Subject},
		{"issuer", e.Issuer},
		{"role", e.Role},
		{"user_id", e.UserID},
		{"ip", e.IP},
		{"error", e.Error},
	} {
		if kv.v != "" {
			attrs = append(attrs, slog.String(kv.k, kv.v))
		}
	}
	for k, v := range e.Metadata {
		attrs = append(attrs, slog.String("meta."+k, v))
	}
	return slog.GroupValue(attrs...)
}

// Sink receives events from the dispatcher goroutine.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// MultiSink hands every event to each sink in order.
type MultiSink []Sink

func (m MultiSink) Emit(ctx context.Context, event Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, event)
		}
	}
}
