package tyx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

const (
	testAppID          = "orders"
	testHTTPSecret     = "http-secret"
	testInternalSecret = "internal-secret"
)

type testConfig struct {
	appID           string
	httpSecret      string
	internalSecret  string
	remote          map[string]string
	remoteErr       error
	httpTimeout     time.Duration
	internalTimeout time.Duration
	remoteTimeout   time.Duration
	lifetime        time.Duration
}

func newTestConfig() *testConfig {
	return &testConfig{
		appID:           testAppID,
		httpSecret:      testHTTPSecret,
		internalSecret:  testInternalSecret,
		remote:          map[string]string{"billing": "billing-orders-secret"},
		httpTimeout:     time.Hour,
		internalTimeout: 5 * time.Minute,
		remoteTimeout:   10 * time.Minute,
		lifetime:        8 * time.Hour,
	}
}

func (c *testConfig) AppID() string          { return c.appID }
func (c *testConfig) HTTPSecret() string     { return c.httpSecret }
func (c *testConfig) InternalSecret() string { return c.internalSecret }

func (c *testConfig) RemoteSecret(_ context.Context, peerID string) (string, error) {
	if c.remoteErr != nil {
		return "", c.remoteErr
	}
	return c.remote[peerID], nil
}

func (c *testConfig) HTTPTimeout() time.Duration     { return c.httpTimeout }
func (c *testConfig) InternalTimeout() time.Duration { return c.internalTimeout }
func (c *testConfig) RemoteTimeout() time.Duration   { return c.remoteTimeout }
func (c *testConfig) HTTPLifetime() time.Duration    { return c.lifetime }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func buildTestGate(t *testing.T, cfg Config, clock *testClock) *Gate {
	t.Helper()
	g, err := New(cfg).WithClock(clock.Now).WithMetricsEnabled(true).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func mustIssue(t *testing.T, g *Gate, req IssueRequest) string {
	t.Helper()
	token, err := g.IssueToken(context.Background(), req)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	return token
}

func assertKind(t *testing.T, err error, sentinel error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", sentinel)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %v, got %v", sentinel, err)
	}
}

func userRequest(role, ip string) IssueRequest {
	return IssueRequest{
		Subject:   SubjectUserExternal,
		UserID:    "u-42",
		Role:      role,
		Scope:     "orders:read",
		Email:     "ada@example.com",
		Name:      "Ada",
		IPAddress: ip,
	}
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
