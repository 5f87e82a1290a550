package tyx

import (
	"testing"
	"time"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Options)
		wantValid bool
	}{
		{
			name:      "defaults valid",
			mutate:    func(*Options) {},
			wantValid: true,
		},
		{
			name: "jwt leeway valid",
			mutate: func(o *Options) {
				o.JWT.Leeway = 45 * time.Second
			},
			wantValid: true,
		},
		{
			name: "jwt leeway invalid",
			mutate: func(o *Options) {
				o.JWT.Leeway = 3 * time.Minute
			},
			wantValid: false,
		},
		{
			name: "jwt signing hs512 valid",
			mutate: func(o *Options) {
				o.JWT.SigningMethod = "HS512"
			},
			wantValid: true,
		},
		{
			name: "jwt signing invalid",
			mutate: func(o *Options) {
				o.JWT.SigningMethod = "rs256"
			},
			wantValid: false,
		},
		{
			name: "audit buffer zero invalid when enabled",
			mutate: func(o *Options) {
				o.Audit.Enabled = true
				o.Audit.BufferSize = 0
			},
			wantValid: false,
		},
		{
			name: "audit buffer zero ignored when disabled",
			mutate: func(o *Options) {
				o.Audit.BufferSize = 0
			},
			wantValid: true,
		},
		{
			name: "histograms require metrics",
			mutate: func(o *Options) {
				o.Metrics.EnableLatencyHistograms = true
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestBuildRejectsBadTrustConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*testConfig)
	}{
		{"empty app id", func(c *testConfig) { c.appID = "  " }},
		{"zero http timeout", func(c *testConfig) { c.httpTimeout = 0 }},
		{"zero internal timeout", func(c *testConfig) { c.internalTimeout = 0 }},
		{"zero remote timeout", func(c *testConfig) { c.remoteTimeout = 0 }},
		{"negative lifetime", func(c *testConfig) { c.lifetime = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			tt.mutate(cfg)
			if _, err := New(cfg).Build(); err == nil {
				t.Fatal("expected Build to fail")
			}
		})
	}

	if _, err := New(nil).Build(); err == nil {
		t.Fatal("expected Build to fail without config")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New(newTestConfig())
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer g.Close()
	if _, err := b.Build(); err == nil {
		t.Fatal("second Build must fail")
	}
}

func TestBuilderRejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.JWT.SigningMethod = "none"
	if _, err := New(newTestConfig()).WithOptions(opts).Build(); err == nil {
		t.Fatal("expected invalid signing method to fail Build")
	}
}
