package dto

import "time"

// Analyzer API request bodies

type SimilarityAnalysisRequest struct {
	WalletAddresses []string `json:"walletAddresses"`
}

// Analyzer API responses

type WalletSyncResult struct {
	WalletAddress       string    `json:"walletAddress"`
	TransactionsFetched int       `json:"transactionsFetched"`
	SyncedAt            time.Time `json:"syncedAt"`
}

type TokenBalance struct {
	Mint     string  `json:"mint"`
	Balance  float64 `json:"uiBalance"`
	Decimals int     `json:"decimals"`
}

type TokenBalancesResponse struct {
	WalletAddress string         `json:"walletAddress"`
	Tokens        []TokenBalance `json:"tokens"`
}

// AnalyzerErrorResponse is the error envelope returned by the analyzer API
type AnalyzerErrorResponse struct {
	Error AnalyzerErrorDetail `json:"error"`
}

type AnalyzerErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
}
