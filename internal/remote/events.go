package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ServerEvent is a notification pushed by the claims server over SSE
type ServerEvent struct {
	Type        string `json:"type"`
	Version     string `json:"version,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// EventTypes the server is known to emit
const (
	EventConnected     = "connected"
	EventClaimsUpdated = "claims.updated"
)

// Subscribe opens the server's notification stream and delivers decoded
// events on the returned channel. The stream reconnects after RetryDelay on
// any read failure and only stops when the context is cancelled, at which
// point the channel is closed.
func (c *Client) Subscribe(ctx context.Context, retryDelay time.Duration) <-chan ServerEvent {
	if retryDelay <= 0 {
		retryDelay = 10 * time.Second
	}
	events := make(chan ServerEvent)

	go func() {
		defer close(events)
		for {
			if err := c.streamOnce(ctx, events); err != nil && ctx.Err() == nil {
				select {
				case <-ctx.Done():
					return
				case <-time.After(retryDelay):
					continue
				}
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	return events
}

// streamOnce holds a single SSE connection open, forwarding events until the
// server drops it or the context ends
func (c *Client) streamOnce(ctx context.Context, events chan<- ServerEvent) error {
	endpoint, err := url.JoinPath(c.baseURL, "/api/notifications/stream")
	if err != nil {
		return fmt.Errorf("build stream url: %w", err)
	}
	endpoint += "?token=" + url.QueryEscape(c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// The stream is long-lived; the client-wide timeout would kill it.
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("open stream: unexpected status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var event ServerEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			continue
		}
		select {
		case events <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}
