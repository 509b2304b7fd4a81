package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/kolide/localipc/ee/ipc/address"
	"github.com/kolide/localipc/ee/ipc/listener"
	"github.com/kolide/localipc/pkg/log/multislogger"
	"github.com/kolide/localipc/pkg/rungroup"
	"github.com/oklog/run"
	"github.com/pkg/errors"
)

func runListen(args []string, out io.Writer) error {
	var (
		flagset = flag.NewFlagSet("localipc listen", flag.ContinueOnError)
		flags   channelFlags
	)
	flags.register(flagset)
	if err := parseFlags(flagset, args); err != nil {
		return err
	}

	slogger := multislogger.NewStderrLogger(flags.debug).Logger
	addr := flags.resolve(address.NewResolver(slogger))

	peerListener, err := listener.New(slogger, addr)
	if err != nil {
		return errors.Wrap(err, "creating peer listener")
	}
	fmt.Fprintln(out, addr.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group := rungroup.NewRunGroup(slogger)
	group.AddSignalHandler(ctx, os.Interrupt, syscall.SIGTERM)
	group.Add("peer_listener", peerListener.Execute, peerListener.Interrupt)

	err = group.Run()
	var signalErr run.SignalError
	if errors.As(err, &signalErr) {
		return nil
	}
	return err
}
