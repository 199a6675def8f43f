package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/ridematch/client-go/internal/cli"
	"github.com/ridematch/client-go/internal/config"
	"github.com/ridematch/client-go/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := logging.NewSlogLogger(slog.New(handler))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
