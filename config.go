package tyx

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Config is the narrow configuration boundary the gate consumes.
//
// Accessors are called on every verification and issuance; nothing read from
// Config is cached, so a rotated secret takes effect on the next call.
// RemoteSecret may perform I/O and is therefore context-aware.
type Config interface {
	AppID() string
	HTTPSecret() string
	InternalSecret() string
	RemoteSecret(ctx context.Context, peerID string) (string, error)
	HTTPTimeout() time.Duration
	InternalTimeout() time.Duration
	RemoteTimeout() time.Duration
	// HTTPLifetime is the maximum span of a renewal chain; zero disables renewal.
	HTTPLifetime() time.Duration
}

// Options holds gate behavior that is not part of the trust configuration.
type Options struct {
	JWT     JWTOptions
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
JWT OPTIONS
====================================
*/

// JWTOptions configures the token codec.
type JWTOptions struct {
	SigningMethod string // "hs256" (default), "hs384", "hs512"
	Leeway        time.Duration
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles in-process counters and the verify latency histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT OPTIONS
====================================
*/

// DefaultOptions returns the options used when the Builder is given none.
func DefaultOptions() Options {
	return Options{
		JWT: JWTOptions{
			SigningMethod: "hs256",
			Leeway:        0,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks option ranges.
func (o *Options) Validate() error {
	switch strings.ToLower(o.JWT.SigningMethod) {
	case "hs256", "hs384", "hs512":
	default:
		return errors.New("unsupported JWT signing method")
	}
	if o.JWT.Leeway < 0 || o.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be within [0, 2m]")
	}
	if o.Audit.Enabled && o.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}
	if o.Metrics.EnableLatencyHistograms && !o.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}
	return nil
}

// validateTrustConfig checks the values the gate cannot work without.
func validateTrustConfig(cfg Config) error {
	if cfg == nil {
		return errors.New("config required")
	}
	if strings.TrimSpace(cfg.AppID()) == "" {
		return errors.New("AppID must not be empty")
	}
	if cfg.HTTPTimeout() <= 0 {
		return errors.New("HTTPTimeout must be > 0")
	}
	if cfg.InternalTimeout() <= 0 {
		return errors.New("InternalTimeout must be > 0")
	}
	if cfg.RemoteTimeout() <= 0 {
		return errors.New("RemoteTimeout must be > 0")
	}
	if cfg.HTTPLifetime() < 0 {
		return errors.New("HTTPLifetime must be >= 0")
	}
	return nil
}
