package models

import (
	"encoding/json"
	"time"
)

// JobState is the lifecycle state of a job inside a queue.
type JobState string

const (
	JobStateWaiting   JobState = "waiting"
	JobStateActive    JobState = "active"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
	JobStateDelayed   JobState = "delayed"
	JobStatePaused    JobState = "paused"
)

// AllJobStates lists every state in the order stats are reported.
var AllJobStates = []JobState{
	JobStateWaiting,
	JobStateActive,
	JobStateCompleted,
	JobStateFailed,
	JobStateDelayed,
	JobStatePaused,
}

const (
	DefaultJobAttempts = 3
	DefaultJobBackoff  = 5 * time.Second
)

// Job is a unit of asynchronous work owned by the queue runtime.
type Job struct {
	ID           string          `gorm:"type:varchar(128);primaryKey" json:"id"`
	Queue        string          `gorm:"type:varchar(64);primaryKey;index:idx_queue_jobs_claim,priority:1" json:"queue"`
	Name         string          `gorm:"type:varchar(64);not null" json:"name"`
	Data         json.RawMessage `gorm:"type:text" json:"data,omitempty"`
	State        JobState        `gorm:"type:varchar(16);not null;default:'waiting';index:idx_queue_jobs_claim,priority:2" json:"state"`
	Priority     int             `gorm:"not null;default:0;index:idx_queue_jobs_claim,priority:3" json:"priority"`
	AttemptsMade int             `gorm:"not null;default:0" json:"attemptsMade"`
	MaxAttempts  int             `gorm:"not null;default:1" json:"maxAttempts"`
	DelayMs      int64           `gorm:"not null;default:0" json:"delay"`
	BackoffMs    int64           `gorm:"not null;default:0" json:"backoff"`
	KeepComplete int             `gorm:"not null;default:0" json:"removeOnComplete,omitempty"`
	KeepFail     int             `gorm:"not null;default:0" json:"removeOnFail,omitempty"`
	FailedReason string          `gorm:"type:text" json:"failedReason,omitempty"`
	ReturnValue  json.RawMessage `gorm:"type:text" json:"returnValue,omitempty"`
	AvailableAt  time.Time       `gorm:"not null;index:idx_queue_jobs_claim,priority:4" json:"availableAt"`
	ProcessedAt  *time.Time      `json:"processedOn,omitempty"`
	FinishedAt   *time.Time      `gorm:"index" json:"finishedOn,omitempty"`
	CreatedAt    time.Time       `gorm:"not null" json:"timestamp"`
	UpdatedAt    time.Time       `gorm:"not null" json:"-"`
}

func (*Job) TableName() string {
	return "queue_jobs"
}

// CanRetry reports whether another attempt may be scheduled after a failure.
func (j *Job) CanRetry() bool {
	return j.AttemptsMade < j.MaxAttempts
}

// IsFinished reports whether the job reached a terminal state.
func (j *Job) IsFinished() bool {
	return j.State == JobStateCompleted || j.State == JobStateFailed
}

// ProcessingTime returns how long the last attempt ran, or zero if unknown.
func (j *Job) ProcessingTime() time.Duration {
	if j.ProcessedAt == nil || j.FinishedAt == nil {
		return 0
	}
	return j.FinishedAt.Sub(*j.ProcessedAt)
}

// NextAvailableAt computes when a retried job becomes eligible again.
func (j *Job) NextAvailableAt(now time.Time) time.Time {
	return now.Add(time.Duration(j.BackoffMs) * time.Millisecond)
}

// JobOptions control how a job is enqueued. RemoveOnComplete and
// RemoveOnFail keep only the newest N finished jobs of that state; zero
// keeps everything.
type JobOptions struct {
	JobID            string
	Priority         int
	Delay            time.Duration
	Attempts         int
	Backoff          time.Duration
	RemoveOnComplete int
	RemoveOnFail     int
}

// JobCounts holds the number of jobs per state in one queue.
type JobCounts struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Delayed   int64 `json:"delayed"`
	Paused    int64 `json:"paused"`
}

// Set stores count under the given state.
func (c *JobCounts) Set(state JobState, count int64) {
	switch state {
	case JobStateWaiting:
		c.Waiting = count
	case JobStateActive:
		c.Active = count
	case JobStateCompleted:
		c.Completed = count
	case JobStateFailed:
		c.Failed = count
	case JobStateDelayed:
		c.Delayed = count
	case JobStatePaused:
		c.Paused = count
	}
}

// Total sums the counts of every state.
func (c JobCounts) Total() int64 {
	return c.Waiting + c.Active + c.Completed + c.Failed + c.Delayed + c.Paused
}
