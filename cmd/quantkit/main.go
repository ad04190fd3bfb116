// Package main is the entry point for the quantkit command line tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aristath/quantkit/cmd/quantkit/cmd"
)

func main() {
	// Ctrl-C stops a long simulation between trials
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
