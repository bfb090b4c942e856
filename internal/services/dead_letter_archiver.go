package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nydiokar/analyzer-sub009/internal/models"
)

// DeadLetterArchiver consumes the failed-jobs queue. Archiving a record moves
// it to completed, which is the state CleanupOldFailures and the retention
// limits operate on.
type DeadLetterArchiver struct {
	logger *slog.Logger
}

func NewDeadLetterArchiver(logger *slog.Logger) *DeadLetterArchiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeadLetterArchiver{logger: logger}
}

type archiveResult struct {
	Archived  bool   `json:"archived"`
	QueueName string `json:"queueName"`
	JobID     string `json:"jobId"`
}

func (a *DeadLetterArchiver) Process(_ context.Context, job *models.Job) (json.RawMessage, error) {
	if job.Name != models.DeadLetterJobName {
		return nil, fmt.Errorf("unexpected job %q on the dead-letter queue", job.Name)
	}

	var record models.FailedJobMetrics
	if err := json.Unmarshal(job.Data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode dead-letter record %s: %w", job.ID, err)
	}

	a.logger.Info("dead-letter record archived",
		slog.String("event_type", "dead_letter_archived"),
		slog.String("record_id", job.ID),
		slog.String("queue", record.QueueName),
		slog.String("job_id", record.JobID),
		slog.String("job_name", record.JobName),
		slog.Time("failed_at", record.FailedAt),
		slog.Int("attempts", record.Attempts),
		slog.String("error", record.Error),
	)

	return json.Marshal(archiveResult{
		Archived:  true,
		QueueName: record.QueueName,
		JobID:     record.JobID,
	})
}
