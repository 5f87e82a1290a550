// Package config loads the gate's trust configuration from the environment.
//
// Variables use the TYX_ prefix:
//
//	TYX_APP_ID            application id, required
//	TYX_HTTP_SECRET       secret for user:* tokens
//	TYX_INTERNAL_SECRET   secret for internal and self-issued remote tokens
//	TYX_REMOTE_SECRETS    peer:secret,peer:secret
//	TYX_HTTP_TIMEOUT      user token lifetime (default 1h)
//	TYX_INTERNAL_TIMEOUT  internal token lifetime (default 5m)
//	TYX_REMOTE_TIMEOUT    remote token lifetime (default 5m)
//	TYX_HTTP_LIFETIME     maximum renewal chain span, 0 disables renewal (default 12h)
//	TYX_REDIS_ADDR        optional Redis holding peer secrets
//	TYX_REDIS_PREFIX      key prefix for peer secrets (default tyx:peer:)
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/kbajalc/tyx-core/peers"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "TYX_"

// Settings is the raw environment.
type Settings struct {
	AppID           string            `env:"APP_ID"`
	HTTPSecret      string            `env:"HTTP_SECRET"`
	InternalSecret  string            `env:"INTERNAL_SECRET"`
	RemoteSecrets   map[string]string `env:"REMOTE_SECRETS"`
	HTTPTimeout     time.Duration     `env:"HTTP_TIMEOUT"     envDefault:"1h"`
	InternalTimeout time.Duration     `env:"INTERNAL_TIMEOUT" envDefault:"5m"`
	RemoteTimeout   time.Duration     `env:"REMOTE_TIMEOUT"   envDefault:"5m"`
	HTTPLifetime    time.Duration     `env:"HTTP_LIFETIME"    envDefault:"12h"`
	RedisAddr       string            `env:"REDIS_ADDR"`
	RedisPrefix     string            `env:"REDIS_PREFIX"     envDefault:"tyx:peer:"`
}

// Validate checks values the gate cannot run without.
func (s Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.AppID) == "" {
		errs = append(errs, errors.New(EnvPrefix+"APP_ID is required"))
	}
	if s.HTTPTimeout <= 0 {
		errs = append(errs, errors.New(EnvPrefix+"HTTP_TIMEOUT must be > 0"))
	}
	if s.InternalTimeout <= 0 {
		errs = append(errs, errors.New(EnvPrefix+"INTERNAL_TIMEOUT must be > 0"))
	}
	if s.RemoteTimeout <= 0 {
		errs = append(errs, errors.New(EnvPrefix+"REMOTE_TIMEOUT must be > 0"))
	}
	if s.HTTPLifetime < 0 {
		errs = append(errs, errors.New(EnvPrefix+"HTTP_LIFETIME must be >= 0"))
	}
	if s.HTTPLifetime > 0 && s.HTTPLifetime < s.HTTPTimeout {
		errs = append(errs, errors.New(EnvPrefix+"HTTP_LIFETIME must not be shorter than HTTP_TIMEOUT"))
	}
	return errors.Join(errs...)
}

// Env implements tyx.Config over Settings. Remote secrets come from a
// peers.Source, by default the TYX_REMOTE_SECRETS map.
type Env struct {
	settings Settings
	peers    peers.Source
}

// Load reads an optional .env file, then the process environment.
func Load() (*Env, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	return parse(env.Options{Prefix: EnvPrefix})
}

// LoadFrom parses vars instead of the process environment. Keys carry the
// TYX_ prefix.
func LoadFrom(vars map[string]string) (*Env, error) {
	return parse(env.Options{Prefix: EnvPrefix, Environment: vars})
}

func parse(opts env.Options) (*Env, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return New(s)
}

// New validates s and returns an Env backed by s.RemoteSecrets.
func New(s Settings) (*Env, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Env{settings: s, peers: peers.Static(s.RemoteSecrets)}, nil
}

// WithPeers returns a copy of e resolving remote secrets from src, falling
// back to the static map.
func (e *Env) WithPeers(src peers.Source) *Env {
	out := *e
	out.peers = peers.Chain{peers.Static(e.settings.RemoteSecrets), src}
	return &out
}

// Settings returns the parsed environment.
func (e *Env) Settings() Settings { return e.settings }

// The methods below implement tyx.Config.

func (e *Env) AppID() string                  { return e.settings.AppID }
func (e *Env) HTTPSecret() string             { return e.settings.HTTPSecret }
func (e *Env) InternalSecret() string         { return e.settings.InternalSecret }
func (e *Env) HTTPTimeout() time.Duration     { return e.settings.HTTPTimeout }
func (e *Env) InternalTimeout() time.Duration { return e.settings.InternalTimeout }
func (e *Env) RemoteTimeout() time.Duration   { return e.settings.RemoteTimeout }
func (e *Env) HTTPLifetime() time.Duration    { return e.settings.HTTPLifetime }

func (e *Env) RemoteSecret(ctx context.Context, peerID string) (string, error) {
	return e.peers.Secret(ctx, peerID)
}
