package middleware

import (
	"sync"
	"testing"
	"time"

	tyx "github.com/kbajalc/tyx-core"
	"github.com/kbajalc/tyx-core/config"
)

const sharedPeerSecret = "orders-billing"

type testClock struct {
	mu  sync.Mutex
	now time.Time
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

func newClock() *testClock {
	return &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func newTestGate(t *testing.T, appID, peer string, clock *testClock) *tyx.Gate {
	t.Helper()

	cfg, err := config.New(config.Settings{
		AppID:           appID,
		HTTPSecret:      appID + "-http",
		InternalSecret:  appID + "-internal",
		RemoteSecrets:   map[string]string{peer: sharedPeerSecret},
		HTTPTimeout:     time.Hour,
		InternalTimeout: time.Minute,
		RemoteTimeout:   time.Minute,
		HTTPLifetime:    8 * time.Hour,
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	g, err := tyx.New(cfg).WithClock(clock.Now).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}
