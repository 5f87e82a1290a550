package tyx

import (
	"context"

	"github.com/kbajalc/tyx-core/permission"
)

const (
	headerAuthorization      = "Authorization"
	headerAuthorizationLower = "authorization"
	queryToken               = "token"
)

// HTTPAuth authenticates an HTTP call against perm.
//
// When perm admits neither Public nor Debug a token is required and is
// verified, bound to req.SourceIP, and renewed if due. Public methods get a
// synthetic public identity and ignore any token. Debug methods are only
// reachable from loopback; a supplied token is verified and adopted, and a
// failing one falls back to the synthetic debug identity.
func (g *Gate) HTTPAuth(ctx context.Context, req HTTPRequest, perm permission.Permission) (Context, error) {
	if !g.ready() {
		return Context{}, ErrGateNotReady
	}
	c, err := g.httpAuth(ctx, req, perm)
	g.record(MetricHTTPAuthSuccess, MetricHTTPAuthFailure, err)
	if err != nil {
		g.logger.DebugContext(ctx, "http auth rejected",
			"request_id", req.RequestID, "method", perm.Method, "err", err)
		g.emitAudit(ctx, auditEventHTTPAuth, req.RequestID, perm.Method, req.SourceIP, nil, err)
		return Context{}, err
	}
	g.emitAudit(ctx, auditEventHTTPAuth, req.RequestID, perm.Method, req.SourceIP, &c.Auth, nil)
	return c, nil
}

func (g *Gate) httpAuth(ctx context.Context, req HTTPRequest, perm permission.Permission) (Context, error) {
	token := extractToken(req)
	public := perm.Allows(permission.RolePublic)
	debug := perm.Allows(permission.RoleDebug)

	if !public && !debug {
		if token == "" {
			return Context{}, unauthorized("missing authorization token", nil)
		}
		c, err := g.verify(ctx, req.RequestID, token, perm, req.SourceIP)
		if err != nil {
			return Context{}, err
		}
		return g.renew(ctx, c)
	}

	appID := g.cfg.AppID()
	now := g.now()

	var c Context
	if public {
		c = publicContext(appID, req.RequestID, perm, token, now)
		if token != "" {
			g.metricInc(MetricPublicTokenIgnored)
			g.logger.WarnContext(ctx, "token supplied to public method ignored",
				"request_id", req.RequestID, "method", perm.Method)
		}
	}

	if debug {
		if !isLoopback(req.SourceIP) {
			return Context{}, forbidden("debug access requires a loopback caller")
		}
		c = debugContext(appID, req.RequestID, perm, token, now)
		if token != "" {
			vc, err := g.verify(ctx, req.RequestID, token, perm, req.SourceIP)
			if err == nil {
				vc, err = g.renew(ctx, vc)
			}
			if err != nil {
				g.metricInc(MetricDebugFallback)
				g.logger.WarnContext(ctx, "debug token rejected, using debug identity",
					"request_id", req.RequestID, "method", perm.Method, "err", err)
				g.emitAudit(ctx, auditEventDebugFallback, req.RequestID, perm.Method, req.SourceIP, &c.Auth, err)
			} else {
				c = vc
			}
		}
	}

	return c, nil
}

// extractToken looks in the Authorization header, then the authorization
// and token query parameters, then the authorization path parameter.
func extractToken(req HTTPRequest) string {
	candidates := [...]string{
		req.Headers[headerAuthorization],
		req.Headers[headerAuthorizationLower],
		req.QueryStringParameters[headerAuthorizationLower],
		req.QueryStringParameters[queryToken],
		req.PathParameters[headerAuthorizationLower],
	}
	for _, v := range candidates {
		if v != "" {
			return v
		}
	}
	return ""
}

func isLoopback(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1"
}
