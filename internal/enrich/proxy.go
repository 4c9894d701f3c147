package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/autoseat/claimlens/internal/model"
)

// ProxyProvider delegates classification to the claims server's AI proxy
// endpoint, which holds the actual model credentials
type ProxyProvider struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewProxyProvider creates a proxy provider from the enrichment
// configuration. BaseURL falls back to the sync server address.
func NewProxyProvider(cfg model.EnrichConfig, fallbackBaseURL, token string) (*ProxyProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fallbackBaseURL
	}
	if baseURL == "" {
		return nil, fmt.Errorf("proxy provider requires a base URL")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &ProxyProvider{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name
func (p *ProxyProvider) Name() string {
	return "proxy"
}

type proxyRequest struct {
	Claims []Request `json:"claims"`
}

type proxyResponse struct {
	Results map[string]Result `json:"results"`
}

// ClassifyBatch posts the batch to the proxy and returns its per-claim
// results. An empty results map is a valid answer meaning no refinements.
func (p *ProxyProvider) ClassifyBatch(ctx context.Context, requests []Request) (map[string]Result, error) {
	if len(requests) == 0 {
		return map[string]Result{}, nil
	}

	endpoint, err := url.JoinPath(p.baseURL, "/api/ai/classify")
	if err != nil {
		return nil, fmt.Errorf("build classify url: %w", err)
	}

	body, err := json.Marshal(proxyRequest{Claims: requests})
	if err != nil {
		return nil, fmt.Errorf("encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify batch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classify batch: unexpected status %d", resp.StatusCode)
	}

	var payload proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}
	if payload.Results == nil {
		payload.Results = map[string]Result{}
	}
	return payload.Results, nil
}
