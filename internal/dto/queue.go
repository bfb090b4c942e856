package dto

import (
	"encoding/json"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/models"
)

// Job Request DTOs

// WalletSyncRequest enqueues a sync of one wallet's transaction history
type WalletSyncRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,wallet_address"`
	RequestID     string `json:"requestId" validate:"omitempty,max=128"`
	Priority      int    `json:"priority" validate:"min=0,max=100"`
}

// SimilarityRequest enqueues a similarity analysis over a set of wallets
type SimilarityRequest struct {
	WalletAddresses  []string `json:"walletAddresses" validate:"required,min=2,max=100,dive,wallet_address"`
	RequestID        string   `json:"requestId" validate:"required,max=128"`
	FailureThreshold float64  `json:"failureThreshold" validate:"omitempty,gt=0,lte=1"`
}

// AnalysisRequest enqueues a PNL or behavior analysis for one wallet
type AnalysisRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,wallet_address"`
	DependsOn     string `json:"dependsOn" validate:"omitempty,max=128"`
}

// EnrichmentRequest enqueues token balance enrichment for one wallet
type EnrichmentRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,wallet_address"`
	RequestID     string `json:"requestId" validate:"omitempty,max=128"`
}

// DexFetchRequest enqueues a DEX market data fetch for one token
type DexFetchRequest struct {
	TokenAddress string `json:"tokenAddress" validate:"required,wallet_address"`
	RequestID    string `json:"requestId" validate:"omitempty,max=128"`
}

// QueueJobParams identifies one job in one queue
type QueueJobParams struct {
	Queue string `param:"queue" validate:"required,queue_name"`
	JobID string `param:"id" validate:"required,max=128"`
}

// Dead-letter Request DTOs

// ListFailuresRequest represents query parameters for listing dead-letter records
type ListFailuresRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=500"`
}

// CleanupFailuresRequest represents query parameters for deleting old dead-letter records
type CleanupFailuresRequest struct {
	OlderThan string `query:"olderThan" validate:"required"`
}

// Job Response DTOs

// JobResponse represents a job in API responses
type JobResponse struct {
	ID           string          `json:"id"`
	Queue        string          `json:"queue"`
	Name         string          `json:"name"`
	State        models.JobState `json:"state"`
	Priority     int             `json:"priority"`
	AttemptsMade int             `json:"attemptsMade"`
	MaxAttempts  int             `json:"maxAttempts"`
	FailedReason string          `json:"failedReason,omitempty"`
	ReturnValue  json.RawMessage `json:"returnValue,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	ProcessedAt  *time.Time      `json:"processedAt,omitempty"`
	FinishedAt   *time.Time      `json:"finishedAt,omitempty"`
}

func ToJobResponse(job *models.Job) *JobResponse {
	return &JobResponse{
		ID:           job.ID,
		Queue:        job.Queue,
		Name:         job.Name,
		State:        job.State,
		Priority:     job.Priority,
		AttemptsMade: job.AttemptsMade,
		MaxAttempts:  job.MaxAttempts,
		FailedReason: job.FailedReason,
		ReturnValue:  job.ReturnValue,
		CreatedAt:    job.CreatedAt,
		ProcessedAt:  job.ProcessedAt,
		FinishedAt:   job.FinishedAt,
	}
}

// QueueCountsResponse represents job counts per state for one queue
type QueueCountsResponse struct {
	Queue  string           `json:"queue"`
	Counts models.JobCounts `json:"counts"`
	Total  int64            `json:"total"`
}

// Dead-letter Response DTOs

// DeadLetterStats represents the dead-letter queue depth and monitored queues
type DeadLetterStats struct {
	models.JobCounts
	MonitoredQueues []string `json:"monitoredQueues"`
}

// FailuresListResponse represents the most recent dead-letter records
type FailuresListResponse struct {
	Failures []models.FailedJobMetrics `json:"failures"`
	Count    int                       `json:"count"`
	Limit    int                       `json:"limit"`
}

// CleanupFailuresResponse reports how many dead-letter records were removed
type CleanupFailuresResponse struct {
	Removed   int    `json:"removed"`
	OlderThan string `json:"olderThan"`
}

// FailureRateResponse reports the rolling failure count of one queue
type FailureRateResponse struct {
	Queue          string `json:"queue"`
	RecentFailures int    `json:"recentFailures"`
	Threshold      int    `json:"threshold"`
	Window         string `json:"window"`
	AboveThreshold bool   `json:"aboveThreshold"`
}
