package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/config"
	"github.com/nydiokar/analyzer-sub009/internal/processors"
	"github.com/nydiokar/analyzer-sub009/internal/sandbox"
	"github.com/nydiokar/analyzer-sub009/internal/services"
)

// runSandbox is the child side of a sandboxed job: one job on stdin, one
// envelope on stdout.
func runSandbox(cfg *config.Config, logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger = logger.With(slog.String("component", "sandbox"), slog.Int("pid", os.Getpid()))

	registry := sandbox.NewRegistry()
	if err := processors.Register(registry, processors.DefaultOptions()); err != nil {
		logger.Error("failed to register processors",
			slog.String("event_type", "sandbox_registry_failed"),
			slog.String("error", err.Error()),
		)
		return sandbox.ExitFailed
	}

	opener := func(ctx context.Context, jobLogger *slog.Logger) (map[string]services.JobQueueInterface, func() error, error) {
		b, err := openBackend(ctx, cfg, jobLogger, false)
		if err != nil {
			return nil, nil, fmt.Errorf("sandbox could not reach the queue backend: %w", err)
		}
		return serviceQueues(b.openQueues()), b.Close, nil
	}

	bootstrapper := sandbox.NewAppBootstrapper(cfg, opener, services.NewPrometheusMetrics(), logger)

	return sandbox.ServeStdio(ctx, os.Stdin, os.Stdout, bootstrapper, registry, sandbox.RunOptions{
		FlushDelay: cfg.Sandbox.FlushDelay,
		Logger:     logger,
	})
}

// mintToken prints a signed operator token. It needs JWT_PRIVATE_KEY, or a
// development keypair which only verifies inside the same process.
func mintToken(cfg *config.Config, args []string, out io.Writer) error {
	opts, err := parseTokenArgs(args)
	if err != nil {
		return err
	}

	token, expiresAt, err := services.NewTokenService(&cfg.JWT).GenerateOperatorToken(opts.subject, opts.role, opts.ttl)
	if err != nil {
		return fmt.Errorf("failed to mint operator token: %w", err)
	}

	_, err = fmt.Fprintf(out, "%s\n# subject=%s role=%s expires=%s\n", token, opts.subject, opts.role, expiresAt.UTC().Format(time.RFC3339))
	return err
}
