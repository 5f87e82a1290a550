package tyx

import (
	"time"

	"github.com/kbajalc/tyx-core/jwt"
	"github.com/kbajalc/tyx-core/permission"
)

// syntheticLifetime bounds identities the gate makes up without a token.
const syntheticLifetime = 60 * time.Second

func syntheticAuth(appID, tokenID, subject, role, token string, now time.Time) AuthInfo {
	return AuthInfo{
		TokenID:  tokenID,
		Issuer:   appID,
		Audience: appID,
		Subject:  subject,
		Remote:   false,
		Role:     role,
		Serial:   now,
		Issued:   now,
		Expires:  now.Add(syntheticLifetime),
		Token:    token,
	}
}

func publicContext(appID, requestID string, perm permission.Permission, token string, now time.Time) Context {
	return Context{
		RequestID:  requestID,
		Permission: perm,
		Auth:       syntheticAuth(appID, requestID, SubjectUserPublic, permission.RolePublic, token, now),
	}
}

func debugContext(appID, requestID string, perm permission.Permission, token string, now time.Time) Context {
	return Context{
		RequestID:  requestID,
		Permission: perm,
		Auth:       syntheticAuth(appID, requestID, SubjectUserDebug, permission.RoleDebug, token, now),
	}
}

func eventContext(appID, requestID string, perm permission.Permission, now time.Time) Context {
	return Context{
		RequestID:  requestID,
		Permission: perm,
		Auth:       syntheticAuth(appID, requestID, SubjectEvent, permission.RoleInternal, "", now),
	}
}

func verifiedContext(requestID string, perm permission.Permission, claims *jwt.Claims, token string) Context {
	return Context{
		RequestID:  requestID,
		Permission: perm,
		Auth: AuthInfo{
			TokenID:   claims.ID,
			Issuer:    claims.Issuer,
			Audience:  claims.Audience,
			Subject:   claims.Subject,
			Remote:    claims.Issuer != claims.Audience,
			UserID:    claims.ObjectID,
			Role:      claims.Role,
			Scope:     claims.Scope,
			Email:     claims.Email,
			Name:      claims.Name,
			IPAddress: claims.IPAddr,
			Serial:    jwt.Time(claims.Serial),
			Issued:    jwt.Time(claims.IssuedAt),
			Expires:   jwt.Time(claims.ExpiresAt),
			Token:     token,
			Renewed:   false,
		},
	}
}
