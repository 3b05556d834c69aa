// Command ls-astrodb loads astronomical catalogs and answers name and
// visibility queries against them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/litescript/ls-astrodb/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
