package tyx

import (
	"context"
	"strings"
	"time"
)

// trustDomain is the class of secret and lifetime a token belongs to.
type trustDomain uint8

const (
	domainNone trustDomain = iota
	domainHTTP
	domainInternal
	domainRemote
)

// Resolver selects the signing secret and token lifetime for a
// (subject, issuer, audience) triple. Rules are evaluated in order and the
// first match wins.
type Resolver struct {
	cfg Config
}

// NewResolver returns a Resolver reading from cfg on every call.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// classify returns the trust domain and, for remote-peer tokens, the peer id.
func (r *Resolver) classify(subject, issuer, audience string) (trustDomain, string) {
	appID := r.cfg.AppID()
	switch {
	case strings.HasPrefix(subject, userSubjectPrefix):
		return domainHTTP, ""
	case subject == SubjectInternal && audience == appID && issuer == appID:
		return domainInternal, ""
	case subject == SubjectRemote && audience == appID && issuer == appID:
		return domainInternal, ""
	case subject == SubjectRemote && audience == appID && issuer != audience:
		return domainRemote, issuer
	case subject == SubjectRemote && issuer == appID && issuer != audience:
		return domainRemote, audience
	default:
		return domainNone, ""
	}
}

// Secret returns the secret for the triple. A triple matching no rule, or a
// peer without a registered secret, yields an Unauthorized *Error that does
// not reveal which rule failed.
func (r *Resolver) Secret(ctx context.Context, subject, issuer, audience string) (string, error) {
	domain, peer := r.classify(subject, issuer, audience)
	var secret string
	switch domain {
	case domainHTTP:
		secret = r.cfg.HTTPSecret()
	case domainInternal:
		secret = r.cfg.InternalSecret()
	case domainRemote:
		s, err := r.cfg.RemoteSecret(ctx, peer)
		if err != nil {
			return "", unauthorized("unable to resolve token secret", err)
		}
		secret = s
	}
	if secret == "" {
		return "", unauthorized("unable to resolve token secret", nil)
	}
	return secret, nil
}

// Timeout returns the token lifetime for the triple, using the same rules as Secret.
func (r *Resolver) Timeout(subject, issuer, audience string) (time.Duration, error) {
	domain, _ := r.classify(subject, issuer, audience)
	switch domain {
	case domainHTTP:
		return r.cfg.HTTPTimeout(), nil
	case domainInternal:
		return r.cfg.InternalTimeout(), nil
	case domainRemote:
		return r.cfg.RemoteTimeout(), nil
	default:
		return 0, unauthorized("unable to resolve token timeout", nil)
	}
}
