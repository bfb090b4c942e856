package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/nydiokar/analyzer-sub009/internal/models"
)

// ErrSandboxCrashed reports a child process that exited without writing a
// response, e.g. after being killed.
var ErrSandboxCrashed = errors.New("sandbox process exited without a response")

// ProcessRunner is the parent side of the process boundary. It runs every
// job in a fresh child process so a crashing job cannot take the worker
// down with it.
type ProcessRunner struct {
	binary string
	args   []string
	env    []string
	stderr io.Writer
	logger *slog.Logger
}

type ProcessRunnerOption func(*ProcessRunner)

// WithArgs replaces the default "sandbox" subcommand arguments.
func WithArgs(args ...string) ProcessRunnerOption {
	return func(r *ProcessRunner) {
		r.args = args
	}
}

// WithEnv adds KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) ProcessRunnerOption {
	return func(r *ProcessRunner) {
		r.env = append(r.env, env...)
	}
}

// WithStderr sets where the child's log output goes. Defaults to os.Stderr.
func WithStderr(w io.Writer) ProcessRunnerOption {
	return func(r *ProcessRunner) {
		r.stderr = w
	}
}

// NewProcessRunner launches binary for each job. An empty binary means the
// current executable.
func NewProcessRunner(binary string, logger *slog.Logger, opts ...ProcessRunnerOption) (*ProcessRunner, error) {
	if binary == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sandbox binary: %w", err)
		}
		binary = self
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &ProcessRunner{
		binary: binary,
		args:   []string{"sandbox"},
		stderr: os.Stderr,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *ProcessRunner) Process(ctx context.Context, job *models.Job) (json.RawMessage, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job for sandbox: %w", err)
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, r.args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = r.stderr
	cmd.Env = append(os.Environ(), r.env...)

	runErr := cmd.Run()

	var envelope Envelope
	if decodeErr := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &envelope); decodeErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("sandbox aborted: %w", ctxErr)
		}
		if runErr != nil {
			r.logger.Error("sandbox process crashed",
				slog.String("event_type", "sandbox_crashed"),
				slog.String("job_id", job.ID),
				slog.String("job_name", job.Name),
				slog.String("error", runErr.Error()),
			)
			return nil, fmt.Errorf("%w: %v", ErrSandboxCrashed, runErr)
		}
		return nil, fmt.Errorf("invalid sandbox response %q: %w", truncate(stdout.String(), 200), decodeErr)
	}

	if envelope.Error != "" {
		return nil, errors.New(envelope.Error)
	}
	if runErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrSandboxCrashed, runErr)
	}
	return envelope.Result, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
