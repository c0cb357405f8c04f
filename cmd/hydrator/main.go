package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/datazip-inc/olake-hydrator/protocol"
	"github.com/datazip-inc/olake-hydrator/utils/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := protocol.CreateRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatal(err)
	}
}
