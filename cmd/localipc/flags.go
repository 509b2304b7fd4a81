package main

import (
	"flag"
	"fmt"

	"github.com/kolide/localipc/ee/ipc/address"
	"github.com/peterbourgon/ff/v3"
)

const envVarPrefix = "LOCALIPC"

// channelFlags are shared by every subcommand.
type channelFlags struct {
	channel string
	debug   bool
}

func (c *channelFlags) register(flagset *flag.FlagSet) {
	flagset.StringVar(&c.channel, "channel", "", "channel name (default: the platform's GUI channel)")
	flagset.BoolVar(&c.debug, "debug", false, "enable debug logging")
}

func parseFlags(flagset *flag.FlagSet, args []string) error {
	if err := ff.Parse(flagset, args, ff.WithEnvVarPrefix(envVarPrefix)); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	return nil
}

// resolve returns the address for the requested channel, or the GUI
// channel when none was given.
func (c *channelFlags) resolve(r *address.Resolver) address.Address {
	if c.channel == "" {
		return r.GUIAddress()
	}
	return r.Resolve(c.channel)
}
