package models

// Job names, one per processor.
const (
	JobNameSyncWallet          = "sync-wallet"
	JobNameCalculatePnl        = "calculate-pnl"
	JobNameAnalyzeBehavior     = "analyze-behavior"
	JobNameCalculateSimilarity = "calculate-similarity"
	JobNameEnrichTokens        = "enrich-token-balances"
	JobNameFetchDexData        = "fetch-dex-data"
)

// QueueForJob returns the queue a job name is routed to, or "" if unknown.
func QueueForJob(name string) string {
	switch name {
	case JobNameSyncWallet:
		return QueueWalletOperations
	case JobNameCalculatePnl, JobNameAnalyzeBehavior:
		return QueueAnalysisOperations
	case JobNameCalculateSimilarity:
		return QueueSimilarityOperations
	case JobNameEnrichTokens, JobNameFetchDexData:
		return QueueEnrichmentOperations
	default:
		return ""
	}
}

type SyncWalletPayload struct {
	WalletAddress string `json:"walletAddress"`
	RequestID     string `json:"requestId,omitempty"`
}

type AnalysisPayload struct {
	WalletAddress string `json:"walletAddress"`
	DependsOn     string `json:"dependsOn,omitempty"`
}

type SimilarityPayload struct {
	WalletAddresses  []string `json:"walletAddresses"`
	RequestID        string   `json:"requestId"`
	FailureThreshold float64  `json:"failureThreshold,omitempty"`
}

type EnrichmentPayload struct {
	WalletAddress string `json:"walletAddress"`
	RequestID     string `json:"requestId,omitempty"`
}

type DexFetchPayload struct {
	TokenAddress string `json:"tokenAddress"`
	RequestID    string `json:"requestId,omitempty"`
}
