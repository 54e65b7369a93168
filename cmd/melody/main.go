package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/satindergrewal/melodymagic/internal/cli"
	"github.com/satindergrewal/melodymagic/internal/config"
)

func main() {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCommand(cfg).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
