package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/kbajalc/tyx-core/jwt"
)

func runDecode(_ context.Context, args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: decode takes exactly one token", errUsage)
	}

	codec, err := jwt.NewCodec(jwt.Config{})
	if err != nil {
		return err
	}
	claims, ok := codec.Decode(fs.Arg(0))
	if !ok {
		return errors.New("token cannot be decoded")
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(claims)
}
