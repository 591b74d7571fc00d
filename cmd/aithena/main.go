package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/aithena-labs/aithena/cmd/aithena/cmd"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd.Execute(ctx)
}
