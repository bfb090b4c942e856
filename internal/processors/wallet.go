package processors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/sandbox"
)

type walletSyncProcessor struct {
	app *sandbox.AppContext
}

func (p *walletSyncProcessor) Process(ctx context.Context, job *models.Job) (json.RawMessage, error) {
	payload, err := decodePayload[models.SyncWalletPayload](job)
	if err != nil {
		return nil, err
	}
	if payload.WalletAddress == "" {
		return nil, fmt.Errorf("%w: walletAddress is required", ErrInvalidPayload)
	}

	result, err := p.app.Analyzer.SyncWallet(ctx, payload.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to sync wallet %s: %w", payload.WalletAddress, err)
	}

	p.app.Logger.Info("wallet synced",
		slog.String("event_type", "wallet_synced"),
		slog.String("wallet_address", payload.WalletAddress),
		slog.Int("transactions_fetched", result.TransactionsFetched),
	)

	return encodeResult(result)
}

type analysisProcessor struct {
	app     *sandbox.AppContext
	analyze func(ctx context.Context, walletAddress string) (json.RawMessage, error)
}

func (p *analysisProcessor) Process(ctx context.Context, job *models.Job) (json.RawMessage, error) {
	payload, err := decodePayload[models.AnalysisPayload](job)
	if err != nil {
		return nil, err
	}
	if payload.WalletAddress == "" {
		return nil, fmt.Errorf("%w: walletAddress is required", ErrInvalidPayload)
	}

	if err := checkDependency(ctx, p.app, payload.DependsOn); err != nil {
		return nil, err
	}

	result, err := p.analyze(ctx, payload.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("%s failed for %s: %w", job.Name, payload.WalletAddress, err)
	}
	return result, nil
}
