package models

// BatchResult is the outcome of a single item in a batch.
type BatchResult[T any] struct {
	ItemID           string `json:"itemId"`
	Success          bool   `json:"success"`
	Data             T      `json:"data,omitempty"`
	Error            string `json:"error,omitempty"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

// BatchSummary aggregates the results of one batch invocation.
// Results keep the order of the input items.
type BatchSummary[T any] struct {
	TotalItems      int              `json:"totalItems"`
	SuccessfulItems int              `json:"successfulItems"`
	FailedItems     int              `json:"failedItems"`
	SuccessRate     float64          `json:"successRate"`
	TimedOut        bool             `json:"timedOut"`
	Results         []BatchResult[T] `json:"results"`
}

// Successful returns the results that succeeded.
func (s *BatchSummary[T]) Successful() []BatchResult[T] {
	out := make([]BatchResult[T], 0, s.SuccessfulItems)
	for _, r := range s.Results {
		if r.Success {
			out = append(out, r)
		}
	}
	return out
}

// Failed returns the results that failed.
func (s *BatchSummary[T]) Failed() []BatchResult[T] {
	out := make([]BatchResult[T], 0, s.FailedItems)
	for _, r := range s.Results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}
