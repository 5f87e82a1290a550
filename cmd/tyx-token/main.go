// tyx-token issues, verifies and decodes gate tokens using the same TYX_*
// environment a service reads, and measures verification throughput.
//
//	tyx-token issue  --subject user:internal --user u1 --role Admin
//	tyx-token verify --roles Admin --ip 10.0.0.1 <token>
//	tyx-token decode <token>
//	tyx-token bench  --tokens 1000 --ops 200000
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	tyx "github.com/kbajalc/tyx-core"
	"github.com/kbajalc/tyx-core/config"
	"github.com/kbajalc/tyx-core/peers"
)

type command struct {
	summary string
	run     func(ctx context.Context, args []string, stdout io.Writer) error
}

var commands = map[string]command{
	"issue":  {"mint a token", runIssue},
	"verify": {"verify a token against a role policy", runVerify},
	"decode": {"print token claims without verifying", runDecode},
	"bench":  {"measure verification throughput", runBench},
}

var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, pflag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		printUsage(os.Stderr)
		return errUsage
	}
	return cmd.run(ctx, args[1:], stdout)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: tyx-token <command> [flags]")
	for _, name := range []string{"issue", "verify", "decode", "bench"} {
		fmt.Fprintf(w, "  %-7s %s\n", name, commands[name].summary)
	}
}

// gateOptions are flags shared by commands that build a Gate.
type gateOptions struct {
	verbose bool
}

func (o *gateOptions) addFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log gate decisions and audit events to stderr")
}

// buildGate loads the environment and, when TYX_REDIS_ADDR is set, resolves
// peer secrets from Redis after the static map.
func buildGate(ctx context.Context, o gateOptions) (*tyx.Gate, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	if addr := cfg.Settings().RedisAddr; addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", addr, err)
		}
		cfg = cfg.WithPeers(peers.NewRedisStore(client, cfg.Settings().RedisPrefix))
		cleanup = func() { _ = client.Close() }
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	b := tyx.New(cfg).WithLogger(logger)
	if o.verbose {
		opts := tyx.DefaultOptions()
		opts.Audit.Enabled = true
		opts.Audit.BufferSize = 16
		b = b.WithOptions(opts).WithAuditSink(tyx.NewSlogSink(logger))
	}
	gate, err := b.Build()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return gate, func() {
		gate.Close()
		cleanup()
	}, nil
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}
