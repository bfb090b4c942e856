package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/nydiokar/analyzer-sub009/internal/models"
)

// Exit codes of the sandbox child process.
const (
	ExitOK     = 0
	ExitFailed = 1
)

// Envelope is the single JSON document the child writes to stdout.
type Envelope struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ServeStdio is the child side of the process boundary: it reads one job
// from in, runs it and writes an Envelope to out. It returns the exit code
// the process should terminate with.
func ServeStdio(ctx context.Context, in io.Reader, out io.Writer, bootstrap Bootstrapper, registry *Registry, opts RunOptions) int {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var job models.Job
	if err := json.NewDecoder(in).Decode(&job); err != nil {
		writeEnvelope(out, Envelope{Error: fmt.Sprintf("invalid job payload: %v", err)}, logger)
		return ExitFailed
	}

	result, err := Run(ctx, &job, bootstrap, registry, opts)
	if err != nil {
		writeEnvelope(out, Envelope{Error: err.Error()}, logger)
		return ExitFailed
	}

	if len(result) > 0 && !json.Valid(result) {
		result, _ = json.Marshal(string(result))
	}
	writeEnvelope(out, Envelope{Result: result}, logger)
	return ExitOK
}

func writeEnvelope(out io.Writer, envelope Envelope, logger *slog.Logger) {
	if err := json.NewEncoder(out).Encode(envelope); err != nil {
		logger.Error("failed to write sandbox response",
			slog.String("event_type", "sandbox_write_failed"),
			slog.String("error", err.Error()),
		)
	}
}
