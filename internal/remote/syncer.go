package remote

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/autoseat/claimlens/internal/model"
)

// SyncStatus captures the outcome of the last server interaction
type SyncStatus struct {
	Connected   bool   `json:"connected"`
	Version     string `json:"version,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
	LastSyncAt  string `json:"lastSyncAt,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Syncer coordinates pull, push and watch against the claims server
type Syncer struct {
	client     *Client
	retryDelay time.Duration
	log        *zap.Logger
}

// NewSyncer wires a syncer around a client
func NewSyncer(client *Client, retryDelay time.Duration, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{client: client, retryDelay: retryDelay, log: log}
}

// Pull fetches claims from the server. Without a since cursor the remote set
// replaces the local one wholesale; with a cursor the delta is merged into
// the local collection by id.
func (s *Syncer) Pull(ctx context.Context, local []model.CleanedClaim, since string) ([]model.CleanedClaim, SyncStatus, error) {
	resp, err := s.client.FetchClaims(ctx, since)
	if err != nil {
		s.log.Warn("pull failed", zap.Error(err))
		return local, SyncStatus{Error: err.Error()}, err
	}

	var merged []model.CleanedClaim
	if since == "" {
		merged = resp.Data
	} else {
		merged = MergeClaimLists(local, resp.Data)
	}

	status := SyncStatus{
		Connected:   true,
		Version:     resp.Version,
		LastUpdated: resp.LastUpdated,
		LastSyncAt:  time.Now().UTC().Format(time.RFC3339),
	}
	s.log.Info("pulled claims",
		zap.Int("fetched", len(resp.Data)),
		zap.Int("total", len(merged)),
		zap.String("version", resp.Version),
		zap.Bool("incremental", since != ""))
	return merged, status, nil
}

// Push uploads the full local collection to the server
func (s *Syncer) Push(ctx context.Context, claims []model.CleanedClaim) (SyncStatus, error) {
	result, err := s.client.UploadClaims(ctx, claims)
	if err != nil {
		s.log.Warn("push failed", zap.Error(err))
		return SyncStatus{Error: err.Error()}, err
	}
	if result == nil {
		s.log.Info("nothing to push")
		return SyncStatus{Connected: true, LastSyncAt: time.Now().UTC().Format(time.RFC3339)}, nil
	}

	status := SyncStatus{
		Connected:   true,
		Version:     result.Version,
		LastUpdated: result.LastUpdated,
		LastSyncAt:  time.Now().UTC().Format(time.RFC3339),
	}
	s.log.Info("pushed claims",
		zap.Int("count", len(claims)),
		zap.String("version", result.Version))
	return status, nil
}

// Check probes the server without mutating anything
func (s *Syncer) Check(ctx context.Context) SyncStatus {
	resp, err := s.client.FetchClaims(ctx, "")
	if err != nil {
		return SyncStatus{Error: err.Error()}
	}
	return SyncStatus{
		Connected:   true,
		Version:     resp.Version,
		LastUpdated: resp.LastUpdated,
		LastSyncAt:  time.Now().UTC().Format(time.RFC3339),
	}
}

// Watch subscribes to server notifications and re-pulls incrementally on
// every claims update, handing the merged collection to onUpdate. It blocks
// until the context is cancelled.
func (s *Syncer) Watch(ctx context.Context, local []model.CleanedClaim, onUpdate func([]model.CleanedClaim, SyncStatus)) error {
	current := local
	lastUpdated := ""

	events := s.client.Subscribe(ctx, s.retryDelay)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return ctx.Err()
			}
			switch event.Type {
			case EventConnected:
				s.log.Info("watch connected", zap.String("version", event.Version))
				if event.LastUpdated != "" {
					lastUpdated = event.LastUpdated
				}
			case EventClaimsUpdated:
				s.log.Info("claims updated on server", zap.String("version", event.Version))
				merged, status, err := s.Pull(ctx, current, lastUpdated)
				if err != nil {
					continue
				}
				current = merged
				if status.LastUpdated != "" {
					lastUpdated = status.LastUpdated
				}
				if onUpdate != nil {
					onUpdate(current, status)
				}
			}
		}
	}
}
