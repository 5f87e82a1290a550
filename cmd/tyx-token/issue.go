package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	tyx "github.com/kbajalc/tyx-core"
)

func runIssue(ctx context.Context, args []string, stdout io.Writer) error {
	var (
		gopts  gateOptions
		req    tyx.IssueRequest
		serial int64
	)
	fs := pflag.NewFlagSet("issue", pflag.ContinueOnError)
	gopts.addFlags(fs)
	fs.StringVar(&req.Subject, "subject", tyx.SubjectUserInternal, "token subject")
	fs.StringVar(&req.Audience, "audience", "", "audience (default: application id)")
	fs.StringVar(&req.TokenID, "id", "", "token id (default: random uuid)")
	fs.StringVar(&req.UserID, "user", "", "user id (oid)")
	fs.StringVar(&req.Role, "role", "", "role claim")
	fs.StringVar(&req.Scope, "scope", "", "scope claim")
	fs.StringVar(&req.Email, "email", "", "email claim")
	fs.StringVar(&req.Name, "name", "", "name claim")
	fs.StringVar(&req.IPAddress, "ip", "", "bind the token to this source ip")
	fs.Int64Var(&serial, "serial", 0, "renewal chain start, unix seconds (default: now)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	req.Serial = tyx.SerialFromUnix(serial)

	gate, closeGate, err := buildGate(ctx, gopts)
	if err != nil {
		return err
	}
	defer closeGate()

	token, err := gate.IssueToken(ctx, req)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}
