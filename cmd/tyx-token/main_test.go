package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbajalc/tyx-core/jwt"
)

func TestRunRejectsUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"mint"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run(context.Background(), nil, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error for empty args, got %v", err)
	}
}

func TestDecodePrintsClaims(t *testing.T) {
	codec, err := jwt.NewCodec(jwt.Config{})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	token, err := codec.Sign(jwt.Claims{ObjectID: "u-7", Role: "Admin"}, "secret", jwt.Envelope{
		ID:        "t-1",
		Issuer:    "app",
		Audience:  "app",
		Subject:   "user:internal",
		ExpiresIn: time.Hour,
	})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{"decode", token}, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for _, want := range []string{`"oid": "u-7"`, `"sub": "user:internal"`, `"jti": "t-1"`} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("decode output missing %s:\n%s", want, out.String())
		}
	}

	if err := run(context.Background(), []string{"decode", "not-a-token"}, &out); err == nil {
		t.Fatal("expected error for undecodable token")
	}
	if err := run(context.Background(), []string{"decode"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error without a token, got %v", err)
	}
}

func TestBenchAgainstMiniredis(t *testing.T) {
	var out bytes.Buffer
	args := []string{"bench", "--tokens", "4", "--ops", "40", "--concurrency", "4"}
	if err := run(context.Background(), args, &out); err != nil {
		t.Fatalf("bench failed: %v", err)
	}
	for _, want := range []string{"verify-user: ops=40 failures=0", "verify-remote: ops=40 failures=0"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("bench output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPercentile(t *testing.T) {
	samples := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(samples, 50); got != 5 {
		t.Fatalf("p50 = %v, want 5", got)
	}
	if got := percentile(samples, 100); got != 10 {
		t.Fatalf("p100 = %v, want 10", got)
	}
	if got := percentile(nil, 99); got != 0 {
		t.Fatalf("empty percentile = %v", got)
	}
}
