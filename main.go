package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/phasa/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
