package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

func main() {
	if err := runMain(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runMain(args []string, out io.Writer) error {
	if len(args) < 1 {
		usage(os.Stderr)
		return errors.New("no subcommand given")
	}

	var run func([]string, io.Writer) error
	switch args[0] {
	case "address":
		run = runAddress
	case "probe":
		run = runProbe
	case "listen":
		run = runListen
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		usage(os.Stderr)
		return errors.Errorf("unknown subcommand %s", args[0])
	}

	err := run(args[1:], out)
	return errors.Wrapf(err, "running subcommand %s", args[0])
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Usage: localipc <subcommand> [flags]

Subcommands:
  address   print the IPC address for a channel
  probe     try to connect to a running instance on a channel
  listen    accept connections on a channel until interrupted

Flags may also be set with LOCALIPC_ prefixed environment variables.
`)
}
