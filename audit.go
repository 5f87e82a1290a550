package tyx

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/kbajalc/tyx-core/internal/audit"
)

type (
	// AuditEvent is one gate decision delivered to an AuditSink.
	AuditEvent = audit.Event
	// AuditSink consumes audit events. Emit runs on the dispatcher goroutine.
	AuditSink = audit.Sink
	// NoOpSink discards every event.
	NoOpSink = audit.NoOpSink
	// MultiAuditSink fans each event out to several sinks.
	MultiAuditSink = audit.MultiSink
)

// NewChannelSink returns a sink that buffers events in a channel.
func NewChannelSink(buffer int) *audit.ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing one JSON object per line to w.
func NewJSONWriterSink(w io.Writer) *audit.JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// NewSlogSink returns a sink logging each event through logger. A nil logger
// selects slog.Default().
func NewSlogSink(logger *slog.Logger) *audit.SlogSink {
	return audit.NewSlogSink(logger)
}

const (
	auditEventHTTPAuth      = "http_auth"
	auditEventRemoteAuth    = "remote_auth"
	auditEventEventAuth     = "event_auth"
	auditEventTokenIssued   = "token_issued"
	auditEventTokenRenewed  = "token_renewed"
	auditEventDebugFallback = "debug_fallback"
)

func (g *Gate) emitAudit(ctx context.Context, eventType, requestID, method, ip string, auth *AuthInfo, err error) {
	if g == nil || g.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: g.now().UTC(),
		EventType: eventType,
		RequestID: requestID,
		Method:    method,
		IP:        ip,
		Success:   err == nil,
	}
	if auth != nil {
		event.Subject = auth.Subject
		event.Issuer = auth.Issuer
		event.Role = auth.Role
		event.UserID = auth.UserID
		event.Metadata = auditMetadata(auth)
	}
	if err != nil {
		event.Error = auditErrorCode(err)
	}
	g.audit.Emit(ctx, event)
}

// auditMetadata carries token details that have no dedicated event field.
func auditMetadata(auth *AuthInfo) map[string]string {
	md := map[string]string{}
	if auth.TokenID != "" {
		md["token_id"] = auth.TokenID
	}
	if auth.Scope != "" {
		md["scope"] = auth.Scope
	}
	if auth.Renewed {
		md["renewed"] = "true"
	}
	if len(md) == 0 {
		return nil
	}
	return md
}

func auditErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if k := KindOf(err); k != 0 {
		return k.String()
	}
	if errors.Is(err, ErrGateNotReady) {
		return "not_ready"
	}
	return "internal_error"
}
