package models

import (
	"encoding/json"
	"time"
)

const (
	DeadLetterQueueName = "failed-jobs"
	DeadLetterJobName   = "failed-job-record"
)

// Known production queues monitored at startup.
const (
	QueueWalletOperations     = "wallet-operations"
	QueueAnalysisOperations   = "analysis-operations"
	QueueSimilarityOperations = "similarity-operations"
	QueueEnrichmentOperations = "enrichment-operations"
)

var KnownQueues = []string{
	QueueWalletOperations,
	QueueAnalysisOperations,
	QueueSimilarityOperations,
	QueueEnrichmentOperations,
}

// IsKnownQueue reports whether name is one of the production queues.
func IsKnownQueue(name string) bool {
	for _, q := range KnownQueues {
		if q == name {
			return true
		}
	}
	return false
}

// FailedJobMetrics is the dead-letter record written once per observed failure.
type FailedJobMetrics struct {
	QueueName      string          `json:"queueName"`
	JobID          string          `json:"jobId"`
	JobName        string          `json:"jobName"`
	FailedAt       time.Time       `json:"failedAt"`
	Attempts       int             `json:"attempts"`
	MaxAttempts    int             `json:"maxAttempts"`
	Error          string          `json:"error"`
	Data           json.RawMessage `json:"data,omitempty"`
	ProcessingTime int64           `json:"processingTime"`
}
