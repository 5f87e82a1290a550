package tyx

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kbajalc/tyx-core/jwt"
	"github.com/kbajalc/tyx-core/permission"
)

const (
	bearerPrefix = "Bearer"
	// nullSecret is tried when a token cannot even be decoded, so that the
	// codec reports the failure instead of the resolver.
	nullSecret = "NULL"
)

// Verify runs the shared verification core on token and returns the
// resulting Context. A non-empty ipAddress must equal the token's ipaddr
// claim unless the token carries the Application role.
//
// HTTPAuth and RemoteAuth call Verify internally; it is exported for
// adapters and tools that already know which permission applies.
func (g *Gate) Verify(ctx context.Context, requestID, token string, perm permission.Permission, ipAddress string) (Context, error) {
	if !g.ready() {
		return Context{}, ErrGateNotReady
	}
	return g.verify(ctx, requestID, token, perm, ipAddress)
}

func (g *Gate) verify(ctx context.Context, requestID, token string, perm permission.Permission, ipAddress string) (Context, error) {
	if g.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { g.metrics.Observe(MetricVerifyLatency, time.Since(start)) }()
	}

	token = stripBearer(token)
	appID := g.cfg.AppID()

	secret := nullSecret
	if unverified, ok := g.codec.Decode(token); ok {
		s, err := g.resolver.Secret(ctx, unverified.Subject, unverified.Issuer, unverified.Audience)
		if err != nil {
			return Context{}, err
		}
		secret = s
	}

	claims, err := g.codec.Verify(token, secret)
	if err != nil {
		var expired *jwt.ExpiredError
		if errors.As(err, &expired) {
			return Context{}, unauthorized(expired.Error(), err)
		}
		return Context{}, badRequest(err.Error(), err)
	}

	if claims.Audience != appID {
		return Context{}, unauthorized("token audience does not match application", nil)
	}

	if claims.Role != permission.RoleApplication {
		if ipAddress != "" && ipAddress != claims.IPAddr {
			return Context{}, unauthorized("token ip address does not match caller", nil)
		}
		if !perm.Allows(claims.Role) {
			return Context{}, unauthorized("role "+claims.Role+" is not permitted", nil)
		}
	}

	timeout, err := g.resolver.Timeout(claims.Subject, claims.Issuer, claims.Audience)
	if err != nil {
		return Context{}, err
	}
	// The issuer doubles as an issue timestamp for peers that encode one.
	// Issuers that are plain application ids never trip this check.
	if issued, ok := parseIssuerTimestamp(claims.Issuer); ok && issued.Add(timeout).Before(g.now()) {
		return Context{}, unauthorized("token issuer is stale", nil)
	}

	return verifiedContext(requestID, perm, claims, token), nil
}

func stripBearer(token string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, bearerPrefix) {
		token = strings.TrimSpace(strings.TrimPrefix(token, bearerPrefix))
	}
	return token
}

var issuerLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseIssuerTimestamp(issuer string) (time.Time, bool) {
	for _, layout := range issuerLayouts {
		if t, err := time.Parse(layout, issuer); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
