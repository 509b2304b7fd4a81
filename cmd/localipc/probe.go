package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/kolide/localipc/ee/ipc/address"
	"github.com/kolide/localipc/ee/ipc/attempt"
	"github.com/kolide/localipc/pkg/log/multislogger"
	"github.com/pkg/errors"
)

var errNoPeer = errors.New("no running instance found")

func runProbe(args []string, out io.Writer) error {
	var (
		flagset   = flag.NewFlagSet("localipc probe", flag.ContinueOnError)
		flags     channelFlags
		flTimeout = flagset.Duration(
			"timeout",
			2*time.Second,
			"how long to wait for the connection attempt",
		)
		flVerbose = flagset.Bool(
			"verbose",
			false,
			"print the full failure to stderr",
		)
	)
	flags.register(flagset)
	if err := parseFlags(flagset, args); err != nil {
		return err
	}

	slogger := multislogger.NewStderrLogger(flags.debug).Logger
	addr := flags.resolve(address.NewResolver(slogger))

	a := attempt.New(addr, *flVerbose, attempt.WithSlogger(slogger))
	a.Start()

	ctx, cancel := context.WithTimeout(context.Background(), *flTimeout)
	defer cancel()

	conn, err := a.Wait(ctx)
	switch {
	case err == nil:
		fmt.Fprintln(out, attempt.Connected.String())
		return conn.Close()
	case errors.Is(err, context.DeadlineExceeded):
		// Abandoned; the attempt may still finish after we exit.
		fmt.Fprintln(out, attempt.Pending.String())
		return errNoPeer
	default:
		fmt.Fprintf(out, "%s: %v\n", attempt.Failed.String(), errors.Cause(err))
		return errNoPeer
	}
}
