package tyx

import (
	"errors"
	"log/slog"
	"time"

	"github.com/kbajalc/tyx-core/internal/audit"
	"github.com/kbajalc/tyx-core/jwt"
)

// Builder assembles a Gate. A Builder can be used for a single Build.
type Builder struct {
	cfg       Config
	opts      Options
	logger    *slog.Logger
	auditSink AuditSink
	now       func() time.Time

	built bool
}

// New starts a Builder over cfg with DefaultOptions.
func New(cfg Config) *Builder {
	return &Builder{
		cfg:  cfg,
		opts: DefaultOptions(),
	}
}

// WithOptions replaces the options, including any metric toggles set earlier.
func (b *Builder) WithOptions(opts Options) *Builder {
	b.opts = opts
	return b
}

// WithLogger sets the structured logger. Nil selects slog.Default().
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink sets the sink that receives audit events when auditing is enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock replaces time.Now for every time-dependent decision. Tests use it
// to move through a token's lifetime.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithMetricsEnabled turns the gate counters on or off.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.opts.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms records verify latency. It needs metrics enabled.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.opts.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns the Gate.
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := validateTrustConfig(b.cfg); err != nil {
		return nil, err
	}

	opts := b.opts
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	now := b.now
	if now == nil {
		now = time.Now
	}
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	codec, err := jwt.NewCodec(jwt.Config{
		Method: jwt.SigningMethod(opts.JWT.SigningMethod),
		Leeway: opts.JWT.Leeway,
		Now:    now,
	})
	if err != nil {
		return nil, err
	}

	g := &Gate{
		cfg:      b.cfg,
		opts:     opts,
		resolver: NewResolver(b.cfg),
		codec:    codec,
		logger:   logger,
		now:      now,
		metrics:  NewMetrics(opts.Metrics),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    opts.Audit.Enabled,
			BufferSize: opts.Audit.BufferSize,
			DropIfFull: opts.Audit.DropIfFull,
		}, b.auditSink),
	}

	b.built = true
	return g, nil
}
