// Package main runs the feed store command-line client.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	feedctlcmd "github.com/louisbranch/feedstore/internal/cmd/feedctl"
	"github.com/louisbranch/feedstore/internal/platform/config"
)

func main() {
	cfg, err := feedctlcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		if errors.Is(err, feedctlcmd.ErrUsage) {
			config.ExitCodef(config.ExitUsage, "%v", err)
		}
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := feedctlcmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		config.Exitf("feedctl: %v", err)
	}
}
