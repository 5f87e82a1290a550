package tyx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kbajalc/tyx-core/jwt"
	"github.com/kbajalc/tyx-core/permission"
)

// IssueToken mints a token for req, signed with the secret the resolver
// selects for (req.Subject, app id, audience) and valid for the matching
// timeout.
func (g *Gate) IssueToken(ctx context.Context, req IssueRequest) (string, error) {
	if !g.ready() {
		return "", ErrGateNotReady
	}
	token, claims, err := g.issue(ctx, req)
	if err != nil {
		g.metricInc(MetricTokenIssueFailure)
		g.logger.DebugContext(ctx, "token issue failed", "subject", req.Subject, "err", err)
		g.emitAudit(ctx, auditEventTokenIssued, "", "", req.IPAddress, &AuthInfo{Subject: req.Subject, Role: req.Role, UserID: req.UserID}, err)
		return "", err
	}
	g.metricInc(MetricTokenIssued)
	g.emitAudit(ctx, auditEventTokenIssued, "", "", req.IPAddress, &AuthInfo{
		TokenID: claims.ID,
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
		Role:    claims.Role,
		UserID:  claims.ObjectID,
		Scope:   claims.Scope,
	}, nil)
	return token, nil
}

func (g *Gate) issue(ctx context.Context, req IssueRequest) (string, *jwt.Claims, error) {
	appID := g.cfg.AppID()

	id := req.TokenID
	if id == "" {
		id = uuid.NewString()
	}
	audience := req.Audience
	if audience == "" {
		audience = appID
	}
	serial := req.Serial
	if serial.IsZero() {
		serial = g.now()
	}
	serial = serial.Truncate(time.Second)

	// Application skips ip and role checks, so it is only minted with
	// internal or remote-peer secrets.
	if req.Role == permission.RoleApplication {
		if domain, _ := g.resolver.classify(req.Subject, appID, audience); domain == domainHTTP {
			return "", nil, unauthorized("application role cannot be issued for "+req.Subject, nil)
		}
	}

	secret, err := g.resolver.Secret(ctx, req.Subject, appID, audience)
	if err != nil {
		return "", nil, err
	}
	timeout, err := g.resolver.Timeout(req.Subject, appID, audience)
	if err != nil {
		return "", nil, err
	}

	token, err := g.codec.Sign(jwt.Claims{
		ObjectID: req.UserID,
		Role:     req.Role,
		Scope:    req.Scope,
		Serial:   jwt.Date(serial),
		Email:    req.Email,
		Name:     req.Name,
		IPAddr:   req.IPAddress,
	}, secret, jwt.Envelope{
		ID:        id,
		Issuer:    appID,
		Audience:  audience,
		Subject:   req.Subject,
		ExpiresIn: timeout,
	})
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	claims, ok := g.codec.Decode(token)
	if !ok {
		return "", nil, fmt.Errorf("issue token: %w", jwt.ErrEncoding)
	}
	return token, claims, nil
}
