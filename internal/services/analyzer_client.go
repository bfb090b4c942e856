package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/nydiokar/analyzer-sub009/internal/config"
	"github.com/nydiokar/analyzer-sub009/internal/dto"
)

type AuthTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if t.apiKey != "" {
		req.Header.Set("X-API-Key", t.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return t.base.RoundTrip(req)
}

// AnalyzerAPIError is a non-2xx reply from the analyzer API.
type AnalyzerAPIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *AnalyzerAPIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("analyzer error (%d %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("analyzer error (%d): %s", e.StatusCode, e.Message)
}

// AnalyzerClient calls the wallet analyzer backend that does the actual
// syncing and analysis work.
type AnalyzerClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewAnalyzerClient(cfg config.AnalyzerConfig, logger *slog.Logger) AnalyzerClientInterface {
	if logger == nil {
		logger = slog.Default()
	}

	transport := &AuthTransport{
		apiKey: cfg.APIKey,
		base:   http.DefaultTransport,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}

	return &AnalyzerClient{
		baseURL: cfg.BaseURL,
		client:  client,
		logger:  logger,
	}
}

func (c *AnalyzerClient) buildRequest(
	ctx context.Context,
	method, path string,
	body any,
) (*http.Request, error) {

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return req, nil
}

// call sends the request and returns the raw body of a 2xx reply.
func (c *AnalyzerClient) call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	req, err := c.buildRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("analyzer request failed",
			slog.String("event_type", "analyzer_request_failed"),
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if len(respBody) == 0 {
			return json.RawMessage("null"), nil
		}
		return json.RawMessage(respBody), nil
	}

	apiErr := &AnalyzerAPIError{StatusCode: resp.StatusCode, Message: string(respBody)}

	var errResp dto.AnalyzerErrorResponse
	if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
		apiErr.Code = errResp.Error.Code
		apiErr.Message = errResp.Error.Message
		apiErr.RequestID = errResp.Error.RequestID
	}

	c.logger.Warn("analyzer returned an error",
		slog.String("event_type", "analyzer_error_response"),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("code", apiErr.Code),
		slog.String("request_id", apiErr.RequestID),
	)

	return nil, apiErr
}

func (c *AnalyzerClient) SyncWallet(ctx context.Context, walletAddress string) (*dto.WalletSyncResult, error) {
	body, err := c.call(ctx, http.MethodPost, "/wallets/"+url.PathEscape(walletAddress)+"/sync", nil)
	if err != nil {
		return nil, err
	}

	var result dto.WalletSyncResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode sync response: %w", err)
	}
	if result.WalletAddress == "" {
		result.WalletAddress = walletAddress
	}
	return &result, nil
}

func (c *AnalyzerClient) CalculatePnl(ctx context.Context, walletAddress string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/wallets/"+url.PathEscape(walletAddress)+"/pnl", nil)
}

func (c *AnalyzerClient) AnalyzeBehavior(ctx context.Context, walletAddress string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/wallets/"+url.PathEscape(walletAddress)+"/behavior", nil)
}

func (c *AnalyzerClient) CalculateSimilarity(ctx context.Context, walletAddresses []string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/analyses/similarity", dto.SimilarityAnalysisRequest{
		WalletAddresses: walletAddresses,
	})
}

func (c *AnalyzerClient) GetTokenBalances(ctx context.Context, walletAddress string) (*dto.TokenBalancesResponse, error) {
	body, err := c.call(ctx, http.MethodGet, "/wallets/"+url.PathEscape(walletAddress)+"/token-balances", nil)
	if err != nil {
		return nil, err
	}

	var balances dto.TokenBalancesResponse
	if err := json.Unmarshal(body, &balances); err != nil {
		return nil, fmt.Errorf("decode token balances: %w", err)
	}
	return &balances, nil
}

func (c *AnalyzerClient) EnrichToken(ctx context.Context, mint string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/tokens/"+url.PathEscape(mint)+"/enrich", nil)
}

func (c *AnalyzerClient) FetchDexData(ctx context.Context, tokenAddress string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/tokens/"+url.PathEscape(tokenAddress)+"/dex-data", nil)
}
