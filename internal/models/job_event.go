package models

import (
	"encoding/json"
	"time"
)

type JobEventType string

const (
	JobEventCompleted JobEventType = "completed"
	JobEventFailed    JobEventType = "failed"
)

// JobEvent is a lifecycle notification published by the queue runtime.
// Prev carries the job snapshot taken before the transition and is not
// guaranteed to be valid JSON.
type JobEvent struct {
	Queue        string          `json:"queue"`
	Type         JobEventType    `json:"event"`
	JobID        string          `json:"jobId"`
	FailedReason string          `json:"failedReason,omitempty"`
	ReturnValue  json.RawMessage `json:"returnvalue,omitempty"`
	Prev         string          `json:"prev,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}
