package tyx

import (
	"context"

	"github.com/kbajalc/tyx-core/permission"
)

// RemoteAuth authenticates an internal or remote RPC call. The token is
// mandatory and is not bound to a caller address. A token issued by another
// application is only accepted when perm admits Remote.
func (g *Gate) RemoteAuth(ctx context.Context, req RemoteRequest, perm permission.Permission) (Context, error) {
	if !g.ready() {
		return Context{}, ErrGateNotReady
	}
	c, err := g.remoteAuth(ctx, req, perm)
	g.record(MetricRemoteAuthSuccess, MetricRemoteAuthFailure, err)
	if err != nil {
		g.logger.DebugContext(ctx, "remote auth rejected",
			"request_id", req.RequestID, "method", perm.Method, "err", err)
		g.emitAudit(ctx, auditEventRemoteAuth, req.RequestID, perm.Method, "", nil, err)
		return Context{}, err
	}
	g.emitAudit(ctx, auditEventRemoteAuth, req.RequestID, perm.Method, "", &c.Auth, nil)
	return c, nil
}

func (g *Gate) remoteAuth(ctx context.Context, req RemoteRequest, perm permission.Permission) (Context, error) {
	remote := perm.Allows(permission.RoleRemote)
	if !remote && !perm.Allows(permission.RoleInternal) {
		return Context{}, forbidden("method does not accept internal or remote calls")
	}
	if stripBearer(req.Token) == "" {
		return Context{}, unauthorized("missing authorization token", nil)
	}

	c, err := g.verify(ctx, req.RequestID, req.Token, perm, "")
	if err != nil {
		return Context{}, err
	}
	if c.Auth.Remote && !remote {
		return Context{}, unauthorized("remote caller not permitted for internal method", nil)
	}
	return c, nil
}

// EventAuth admits an event delivered by the platform. No token is read;
// the caller gets the synthetic event identity when perm admits Internal.
func (g *Gate) EventAuth(ctx context.Context, req EventRequest, perm permission.Permission) (Context, error) {
	if !g.ready() {
		return Context{}, ErrGateNotReady
	}
	var (
		c   Context
		err error
	)
	if perm.Allows(permission.RoleInternal) {
		c = eventContext(g.cfg.AppID(), req.RequestID, perm, g.now())
	} else {
		err = forbidden("method does not accept internal events")
	}
	g.record(MetricEventAuthSuccess, MetricEventAuthFailure, err)
	if err != nil {
		g.emitAudit(ctx, auditEventEventAuth, req.RequestID, perm.Method, "", nil, err)
		return Context{}, err
	}
	g.emitAudit(ctx, auditEventEventAuth, req.RequestID, perm.Method, "", &c.Auth, nil)
	return c, nil
}
