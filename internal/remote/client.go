// Package remote talks to the claims sync server: fetch, upload, event
// subscription and the local/remote merge. All network failures surface as
// errors the caller treats as transient; retry policy lives with the
// caller, never here.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/autoseat/claimlens/internal/model"
	"github.com/autoseat/claimlens/internal/util"
)

// ClaimsResponse is the server payload for a claims fetch. Without a since
// cursor it is the full authoritative set; with one it is a delta to merge.
type ClaimsResponse struct {
	Data        []model.CleanedClaim `json:"data"`
	LastUpdated string               `json:"lastUpdated,omitempty"`
	Version     string               `json:"version,omitempty"`
}

// UploadResult is the server acknowledgement for an upload
type UploadResult struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
}

type uploadRequest struct {
	Data       []model.CleanedClaim `json:"data"`
	Source     string               `json:"source"`
	UploadedAt string               `json:"uploadedAt"`
}

// Client is the HTTP client for the claims server
type Client struct {
	baseURL    string
	token      string
	source     string
	httpClient *http.Client
}

// NewClient creates a client from the remote configuration
func NewClient(cfg model.RemoteConfig) *Client {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, ""),
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		source:  "claimlens-cli",
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// FetchClaims retrieves claims from the server. An empty since fetches the
// full set; otherwise the server returns records updated after the cursor.
func (c *Client) FetchClaims(ctx context.Context, since string) (*ClaimsResponse, error) {
	endpoint, err := url.JoinPath(c.baseURL, "/api/claims")
	if err != nil {
		return nil, fmt.Errorf("build claims url: %w", err)
	}
	if since != "" {
		endpoint += "?since=" + url.QueryEscape(since)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch claims: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch claims: unexpected status %d", resp.StatusCode)
	}

	var payload ClaimsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode claims response: %w", err)
	}
	return &payload, nil
}

// UploadClaims pushes the full local collection to the server. Uploading an
// empty collection is a no-op returning nil.
func (c *Client) UploadClaims(ctx context.Context, claims []model.CleanedClaim) (*UploadResult, error) {
	if len(claims) == 0 {
		return nil, nil
	}

	endpoint, err := url.JoinPath(c.baseURL, "/api/claims/upload")
	if err != nil {
		return nil, fmt.Errorf("build upload url: %w", err)
	}

	body, err := json.Marshal(uploadRequest{
		Data:       claims,
		Source:     c.source,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload claims: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("upload claims: status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
}
