package tyx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kbajalc/tyx-core/permission"
)

func TestVerifyDoesNotRenew(t *testing.T) {
	clock := newTestClock()
	g := buildTestGate(t, newTestConfig(), clock)

	token := mustIssue(t, g, userRequest("Member", ""))
	clock.Advance(45 * time.Minute)

	c, err := g.Verify(context.Background(), "req-v", "Bearer "+token, permission.New("orders.list", "Member"), "")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if c.Auth.Renewed || c.Auth.Token != token {
		t.Fatal("Verify must return the presented token without renewing it")
	}
	if c.RequestID != "req-v" {
		t.Fatalf("request id = %q", c.RequestID)
	}
}

func TestVerifyRoleAndAddress(t *testing.T) {
	clock := newTestClock()
	g := buildTestGate(t, newTestConfig(), clock)
	ctx := context.Background()

	token := mustIssue(t, g, userRequest("Member", "10.0.0.9"))

	if _, err := g.Verify(ctx, "r", token, permission.New("orders.admin", "Admin"), "10.0.0.9"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for role outside policy, got %v", err)
	}
	if _, err := g.Verify(ctx, "r", token, permission.New("orders.list", "Member"), "10.0.0.10"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for address mismatch, got %v", err)
	}
	if _, err := g.Verify(ctx, "r", token, permission.New("orders.list", "Member"), ""); err != nil {
		t.Fatalf("no caller address skips binding, got %v", err)
	}
}

func TestVerifyOnUnbuiltGate(t *testing.T) {
	var g *Gate
	if _, err := g.Verify(context.Background(), "r", "x", permission.New("m"), ""); !errors.Is(err, ErrGateNotReady) {
		t.Fatalf("expected ErrGateNotReady, got %v", err)
	}
}

func TestParseIssuerTimestamp(t *testing.T) {
	for _, iss := range []string{"2026-03-14T09:00:00Z", "2026-03-14T09:00:00.123456Z", "2026-03-14T09:00:00", "2026-03-14"} {
		if _, ok := parseIssuerTimestamp(iss); !ok {
			t.Fatalf("expected %q to parse as a timestamp", iss)
		}
	}
	for _, iss := range []string{"orders", "billing", ""} {
		if _, ok := parseIssuerTimestamp(iss); ok {
			t.Fatalf("expected %q not to parse", iss)
		}
	}
}
