// Command analyzer-queues runs the analyzer job queues: workers for every
// known queue, the dead-letter monitor and the operator API. The same binary
// serves as the sandbox child ("analyzer-queues sandbox") and can mint
// operator tokens ("analyzer-queues token").
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nydiokar/analyzer-sub009/internal/config"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the sandbox envelope, so logs always go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Server.SlogLevel(),
	}))
	slog.SetDefault(logger)

	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		err = serve(cfg, logger)
	case "sandbox":
		os.Exit(runSandbox(cfg, logger))
	case "token":
		err = mintToken(cfg, args, os.Stdout)
	default:
		err = fmt.Errorf("unknown command %q (expected serve, sandbox or token)", command)
	}

	if err != nil {
		logger.Error("command failed",
			slog.String("event_type", "command_failed"),
			slog.String("command", command),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.listen()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received", slog.String("event_type", "shutdown_started"))
	case err = <-serverErr:
		logger.Error("api server stopped",
			slog.String("event_type", "api_server_failed"),
			slog.String("error", err.Error()),
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutdownErr := app.shutdown(shutdownCtx); shutdownErr != nil {
		return errors.Join(err, shutdownErr)
	}

	logger.Info("shutdown complete", slog.String("event_type", "shutdown_complete"))
	return err
}
