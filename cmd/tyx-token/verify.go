package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/kbajalc/tyx-core/permission"
)

func runVerify(ctx context.Context, args []string, stdout io.Writer) error {
	var (
		gopts     gateOptions
		method    string
		roles     []string
		ip        string
		requestID string
	)
	fs := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	gopts.addFlags(fs)
	fs.StringVar(&method, "method", "cli.verify", "method name reported in audit and errors")
	fs.StringSliceVar(&roles, "roles", nil, "roles the permission admits")
	fs.StringVar(&ip, "ip", "", "caller ip checked against the ipaddr claim")
	fs.StringVar(&requestID, "request-id", "cli", "request id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: verify takes exactly one token", errUsage)
	}

	gate, closeGate, err := buildGate(ctx, gopts)
	if err != nil {
		return err
	}
	defer closeGate()

	c, err := gate.Verify(ctx, requestID, fs.Arg(0), permission.New(method, roles...), ip)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Auth)
}
