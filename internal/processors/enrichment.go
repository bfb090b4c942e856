package processors

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nydiokar/analyzer-sub009/internal/dto"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/sandbox"
	"github.com/nydiokar/analyzer-sub009/internal/services"
)

type enrichmentResult struct {
	WalletAddress string                                `json:"walletAddress"`
	Summary       *models.BatchSummary[json.RawMessage] `json:"summary"`
}

// enrichmentProcessor enriches every token the wallet holds, tolerating a
// share of per-token failures.
type enrichmentProcessor struct {
	app  *sandbox.AppContext
	opts Options
}

func (p *enrichmentProcessor) Process(ctx context.Context, job *models.Job) (json.RawMessage, error) {
	payload, err := decodePayload[models.EnrichmentPayload](job)
	if err != nil {
		return nil, err
	}
	if payload.WalletAddress == "" {
		return nil, fmt.Errorf("%w: walletAddress is required", ErrInvalidPayload)
	}

	balances, err := p.app.Analyzer.GetTokenBalances(ctx, payload.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to load token balances for %s: %w", payload.WalletAddress, err)
	}

	summary, err := services.ProcessBatch(ctx, p.app.Batch, balances.Tokens,
		func(ctx context.Context, token dto.TokenBalance) (json.RawMessage, error) {
			return p.app.Analyzer.EnrichToken(ctx, token.Mint)
		},
		func(token dto.TokenBalance) string { return token.Mint },
		services.WithFailureThreshold(p.opts.EnrichThreshold),
		services.WithMaxConcurrency(p.opts.EnrichConcurrency),
		services.WithRetryAttempts(p.opts.EnrichRetries),
		services.WithRetryDelay(p.opts.EnrichRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("token enrichment for %s: %w", payload.WalletAddress, err)
	}

	return encodeResult(enrichmentResult{WalletAddress: payload.WalletAddress, Summary: summary})
}

type dexFetchProcessor struct {
	app *sandbox.AppContext
}

func (p *dexFetchProcessor) Process(ctx context.Context, job *models.Job) (json.RawMessage, error) {
	payload, err := decodePayload[models.DexFetchPayload](job)
	if err != nil {
		return nil, err
	}
	if payload.TokenAddress == "" {
		return nil, fmt.Errorf("%w: tokenAddress is required", ErrInvalidPayload)
	}

	result, err := p.app.Analyzer.FetchDexData(ctx, payload.TokenAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dex data for %s: %w", payload.TokenAddress, err)
	}
	return result, nil
}
