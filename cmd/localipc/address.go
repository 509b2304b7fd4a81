package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/kolide/localipc/ee/ipc/address"
	"github.com/kolide/localipc/pkg/log/multislogger"
)

func runAddress(args []string, out io.Writer) error {
	var (
		flagset = flag.NewFlagSet("localipc address", flag.ContinueOnError)
		flags   channelFlags
	)
	flags.register(flagset)
	if err := parseFlags(flagset, args); err != nil {
		return err
	}

	slogger := multislogger.NewStderrLogger(flags.debug).Logger
	resolver := address.NewResolver(slogger)

	fmt.Fprintln(out, flags.resolve(resolver).String())
	return nil
}
