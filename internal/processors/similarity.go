package processors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nydiokar/analyzer-sub009/internal/dto"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/sandbox"
	"github.com/nydiokar/analyzer-sub009/internal/services"
)

type similarityResult struct {
	WalletAddresses []string              `json:"walletAddresses"`
	FailedWallets   []string              `json:"failedWallets,omitempty"`
	SyncSummary     similaritySyncSummary `json:"syncSummary"`
	Similarity      json.RawMessage       `json:"similarity"`
}

type similaritySyncSummary struct {
	TotalItems      int     `json:"totalItems"`
	SuccessfulItems int     `json:"successfulItems"`
	SuccessRate     float64 `json:"successRate"`
	TimedOut        bool    `json:"timedOut"`
}

// similarityProcessor syncs every wallet of the set through the
// wallet-operations queue, waits for the syncs and then compares the wallets
// that synced.
type similarityProcessor struct {
	app  *sandbox.AppContext
	opts Options
}

func (p *similarityProcessor) Process(ctx context.Context, job *models.Job) (json.RawMessage, error) {
	payload, err := decodePayload[models.SimilarityPayload](job)
	if err != nil {
		return nil, err
	}

	wallets := uniqueSorted(payload.WalletAddresses)
	if len(wallets) < 2 {
		return nil, fmt.Errorf("%w: at least two distinct wallets are required", ErrInvalidPayload)
	}

	threshold := payload.FailureThreshold
	if threshold <= 0 {
		threshold = p.opts.SimilaritySyncThreshold
	}

	submitted, err := services.ProcessBatch(ctx, p.app.Batch, wallets,
		func(ctx context.Context, wallet string) (string, error) {
			resp, err := p.app.Producer.EnqueueWalletSync(ctx, &dto.WalletSyncRequest{
				WalletAddress: wallet,
				RequestID:     payload.RequestID,
			})
			if err != nil {
				return "", err
			}
			return resp.ID, nil
		},
		func(wallet string) string { return wallet },
		services.WithFailureThreshold(threshold),
		services.WithRetryAttempts(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to submit wallet syncs: %w", err)
	}

	walletByJob := make(map[string]string, len(wallets))
	jobIDs := make([]string, 0, len(wallets))
	for _, r := range submitted.Successful() {
		walletByJob[r.Data] = r.ItemID
		jobIDs = append(jobIDs, r.Data)
	}

	getter, err := p.app.JobGetter(models.QueueWalletOperations)
	if err != nil {
		return nil, err
	}

	synced, err := p.app.Batch.WaitForJobsWithTolerance(ctx, jobIDs, getter,
		services.WithFailureThreshold(threshold),
		services.WithBatchTimeout(p.opts.SimilaritySyncTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("wallet syncs for similarity: %w", err)
	}

	result := similarityResult{
		SyncSummary: similaritySyncSummary{
			TotalItems:      len(wallets),
			SuccessfulItems: synced.SuccessfulItems,
			SuccessRate:     float64(synced.SuccessfulItems) / float64(len(wallets)),
			TimedOut:        synced.TimedOut,
		},
	}
	for _, r := range submitted.Failed() {
		result.FailedWallets = append(result.FailedWallets, r.ItemID)
	}
	for _, r := range synced.Results {
		if r.Success {
			result.WalletAddresses = append(result.WalletAddresses, walletByJob[r.ItemID])
		} else {
			result.FailedWallets = append(result.FailedWallets, walletByJob[r.ItemID])
		}
	}
	sort.Strings(result.FailedWallets)

	if len(result.WalletAddresses) < 2 {
		return nil, fmt.Errorf("%w: %d of %d", ErrNotEnoughSyncedWallets, len(result.WalletAddresses), len(wallets))
	}

	if len(result.FailedWallets) > 0 {
		p.app.Logger.Warn("similarity continues without some wallets",
			slog.String("event_type", "similarity_partial_sync"),
			slog.Int("synced", len(result.WalletAddresses)),
			slog.Any("failed_wallets", result.FailedWallets),
		)
	}

	result.Similarity, err = p.app.Analyzer.CalculateSimilarity(ctx, result.WalletAddresses)
	if err != nil {
		return nil, fmt.Errorf("similarity analysis failed: %w", err)
	}

	return encodeResult(result)
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
