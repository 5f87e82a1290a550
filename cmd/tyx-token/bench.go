package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	tyx "github.com/kbajalc/tyx-core"
	"github.com/kbajalc/tyx-core/config"
	"github.com/kbajalc/tyx-core/peers"
	"github.com/kbajalc/tyx-core/permission"
)

const (
	benchApp  = "bench-app"
	benchPeer = "bench-peer"
)

type benchOptions struct {
	tokens      int
	concurrency int
	ops         int
	redisAddr   string
	prefix      string
}

// runBench mints user and remote-peer tokens against a throwaway
// configuration, then verifies them from concurrent workers. Remote tokens
// resolve their secret through Redis on every call.
func runBench(ctx context.Context, args []string, stdout io.Writer) error {
	var o benchOptions
	fs := pflag.NewFlagSet("bench", pflag.ContinueOnError)
	fs.IntVar(&o.tokens, "tokens", 1000, "number of tokens to mint per phase")
	fs.IntVar(&o.concurrency, "concurrency", 64, "number of concurrent workers")
	fs.IntVar(&o.ops, "ops", 100000, "verifications per phase")
	fs.StringVar(&o.redisAddr, "redis-addr", "", "redis address; miniredis is used when empty")
	fs.StringVar(&o.prefix, "prefix", "tyx:bench:", "peer secret key prefix")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if o.tokens <= 0 || o.concurrency <= 0 || o.ops <= 0 {
		return fmt.Errorf("%w: tokens, concurrency and ops must be > 0", errUsage)
	}

	client, cleanup, err := benchRedis(o.redisAddr, stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	store := peers.NewRedisStore(client, o.prefix)
	if err := store.Put(ctx, benchPeer, "bench-peer-secret", 0); err != nil {
		return err
	}
	defer func() { _ = store.Delete(context.Background(), benchPeer) }()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	local, err := benchGate(benchApp, nil, quiet, store)
	if err != nil {
		return err
	}
	defer local.Close()

	peer, err := benchGate(benchPeer, map[string]string{benchApp: "bench-peer-secret"}, quiet, nil)
	if err != nil {
		return err
	}
	defer peer.Close()

	userTokens := make([]string, o.tokens)
	remoteTokens := make([]string, o.tokens)
	start := time.Now()
	for i := 0; i < o.tokens; i++ {
		userTokens[i], err = local.IssueToken(ctx, tyx.IssueRequest{
			Subject: tyx.SubjectUserInternal,
			UserID:  fmt.Sprintf("u-%d", i),
			Role:    "Member",
		})
		if err != nil {
			return err
		}
		remoteTokens[i], err = peer.IssueToken(ctx, tyx.IssueRequest{
			Subject:  tyx.SubjectRemote,
			Audience: benchApp,
			Role:     permission.RoleRemote,
		})
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "minted %d tokens in %s\n", 2*o.tokens, time.Since(start).Round(time.Millisecond))

	member := permission.New("bench.user", "Member")
	remote := permission.New("bench.remote", permission.RoleRemote)

	userStats := runPhase(o, func(i int) error {
		_, err := local.Verify(ctx, "bench", userTokens[i], member, "")
		return err
	})
	remoteStats := runPhase(o, func(i int) error {
		_, err := local.RemoteAuth(ctx, tyx.RemoteRequest{RequestID: "bench", Token: remoteTokens[i]}, remote)
		return err
	})

	fmt.Fprintln(stdout, "---- results ----")
	printStats(stdout, "verify-user", userStats)
	printStats(stdout, "verify-remote", remoteStats)
	return nil
}

func benchRedis(addr string, stdout io.Writer) (redis.UniversalClient, func(), error) {
	if addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		fmt.Fprintf(stdout, "using redis at %s\n", addr)
		return client, func() { _ = client.Close() }, nil
	}
	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	fmt.Fprintf(stdout, "using miniredis at %s\n", mr.Addr())
	return client, func() {
		_ = client.Close()
		mr.Close()
	}, nil
}

func benchGate(appID string, remote map[string]string, logger *slog.Logger, src peers.Source) (*tyx.Gate, error) {
	cfg, err := config.New(config.Settings{
		AppID:           appID,
		HTTPSecret:      appID + "-http-secret",
		InternalSecret:  appID + "-internal-secret",
		RemoteSecrets:   remote,
		HTTPTimeout:     time.Hour,
		InternalTimeout: 5 * time.Minute,
		RemoteTimeout:   5 * time.Minute,
	})
	if err != nil {
		return nil, err
	}
	if src != nil {
		cfg = cfg.WithPeers(src)
	}
	return tyx.New(cfg).WithLogger(logger).Build()
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func runPhase(o benchOptions, op func(i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, o.ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < o.concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				if int(atomic.AddInt64(&cursor, 1)) > o.ops {
					return
				}
				t0 := time.Now()
				err := op(r.Intn(o.tokens))
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(w io.Writer, name string, s phaseStats) {
	fmt.Fprintf(w, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
