package tyx

import "context"

// renew reissues a self-issued user token once it is in the back half of its
// HTTP lifetime, as long as the chain started at Serial stays within
// HTTPLifetime. The returned Context is new; c is left untouched.
func (g *Gate) renew(ctx context.Context, c Context) (Context, error) {
	auth := c.Auth
	lifetime := g.cfg.HTTPLifetime()
	if auth.Issuer != g.cfg.AppID() || lifetime <= 0 {
		return c, nil
	}
	if auth.Subject != SubjectUserInternal && auth.Subject != SubjectUserExternal {
		return c, nil
	}

	timeout := g.cfg.HTTPTimeout()
	now := g.now()
	if auth.Expires.Sub(now) > timeout/2 {
		return c, nil
	}
	if now.Add(timeout).Sub(auth.Serial) > lifetime {
		return c, nil
	}

	token, claims, err := g.issue(ctx, IssueRequest{
		TokenID:   auth.TokenID,
		Audience:  auth.Audience,
		Subject:   auth.Subject,
		UserID:    auth.UserID,
		Role:      auth.Role,
		Scope:     auth.Scope,
		Serial:    auth.Serial,
		Email:     auth.Email,
		Name:      auth.Name,
		IPAddress: auth.IPAddress,
	})
	if err != nil {
		return c, err
	}

	renewed := verifiedContext(c.RequestID, c.Permission, claims, token)
	renewed.Auth.Renewed = true

	g.metricInc(MetricTokenRenewed)
	g.emitAudit(ctx, auditEventTokenRenewed, c.RequestID, c.Permission.Method, auth.IPAddress, &renewed.Auth, nil)
	return renewed, nil
}
