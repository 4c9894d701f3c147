package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/autoseat/claimlens/internal/cache"
	"github.com/autoseat/claimlens/internal/model"
)

type stubProvider struct {
	mu      sync.Mutex
	batches [][]Request
	results map[string]Result
	err     error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) ClassifyBatch(ctx context.Context, requests []Request) (map[string]Result, error) {
	s.mu.Lock()
	s.batches = append(s.batches, requests)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]Result)
	for _, req := range requests {
		if result, ok := s.results[req.ID]; ok {
			out[req.ID] = result
		}
	}
	return out, nil
}

func enrichConfig() model.EnrichConfig {
	return model.EnrichConfig{Provider: "proxy", BatchSize: 2, Workers: 1}
}

func TestNeedsEnrichment(t *testing.T) {
	cases := []struct {
		name  string
		claim model.CleanedClaim
		want  bool
	}{
		{"unclassified", model.CleanedClaim{Phenomenon: model.UnclassifiedLabel}, true},
		{"empty", model.CleanedClaim{}, true},
		{"catch-all", model.CleanedClaim{Phenomenon: "Other / Unclassified"}, true},
		{"high severity", model.CleanedClaim{Phenomenon: "Track / Noise", Severity: model.SeverityHigh}, true},
		{"classified medium", model.CleanedClaim{Phenomenon: "Track / Noise", Severity: model.SeverityMedium}, false},
	}
	for _, tc := range cases {
		if got := NeedsEnrichment(tc.claim); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEnrichAppliesResults(t *testing.T) {
	provider := &stubProvider{results: map[string]Result{
		"A": {Phenomenon: "Seat Heater / Thermal", Cause: "Wiring / Electrical", Severity: "High"},
	}}
	enricher := NewEnricher(provider, nil, enrichConfig(), nil)

	claims := []model.CleanedClaim{
		{ID: "A", Description: "heating element smell", Phenomenon: model.UnclassifiedLabel},
		{ID: "B", Description: "track rattle", Phenomenon: "Track / Noise", Severity: model.SeverityLow},
	}

	out, stats := enricher.Enrich(context.Background(), claims)

	if stats.Candidates != 1 || stats.Enriched != 1 {
		t.Errorf("stats: %+v", stats)
	}
	if out[0].Phenomenon != "Seat Heater / Thermal" || out[0].Severity != model.SeverityHigh {
		t.Errorf("claim A not enriched: %+v", out[0])
	}
	if out[1].Phenomenon != "Track / Noise" {
		t.Errorf("claim B should be untouched: %+v", out[1])
	}
	if claims[0].Phenomenon != model.UnclassifiedLabel {
		t.Error("input slice mutated")
	}
}

func TestEnrichEmptyResultLeavesClaims(t *testing.T) {
	provider := &stubProvider{results: map[string]Result{}}
	enricher := NewEnricher(provider, nil, enrichConfig(), nil)

	claims := []model.CleanedClaim{
		{ID: "A", Description: "odd noise", Phenomenon: model.UnclassifiedLabel},
	}

	out, stats := enricher.Enrich(context.Background(), claims)

	if stats.Candidates != 1 || stats.Enriched != 0 {
		t.Errorf("stats: %+v", stats)
	}
	if out[0].Phenomenon != model.UnclassifiedLabel {
		t.Errorf("claim should be untouched: %+v", out[0])
	}
}

func TestEnrichProviderFailureDegrades(t *testing.T) {
	provider := &stubProvider{err: errors.New("service down")}
	enricher := NewEnricher(provider, nil, enrichConfig(), nil)

	claims := []model.CleanedClaim{
		{ID: "A", Description: "odd noise", Phenomenon: model.UnclassifiedLabel},
	}

	out, stats := enricher.Enrich(context.Background(), claims)

	if stats.Failed == 0 {
		t.Error("expected failed batches recorded")
	}
	if out[0].Phenomenon != model.UnclassifiedLabel {
		t.Errorf("claim should keep rule-based classification: %+v", out[0])
	}
}

func TestEnrichBatching(t *testing.T) {
	provider := &stubProvider{results: map[string]Result{}}
	enricher := NewEnricher(provider, nil, enrichConfig(), nil)

	claims := make([]model.CleanedClaim, 5)
	for i := range claims {
		claims[i] = model.CleanedClaim{ID: string(rune('A' + i)), Phenomenon: model.UnclassifiedLabel}
	}

	enricher.Enrich(context.Background(), claims)

	if len(provider.batches) != 3 {
		t.Errorf("expected 3 batches of size <= 2, got %d", len(provider.batches))
	}
}

// A candidate set far larger than the worker count must run to completion:
// every batch is submitted before results are read, so the pool has to keep
// draining while submission is in flight.
func TestEnrichLargeCandidateSet(t *testing.T) {
	provider := &stubProvider{results: map[string]Result{}}
	cfg := model.EnrichConfig{Provider: "proxy", BatchSize: 1, Workers: 1}
	enricher := NewEnricher(provider, nil, cfg, nil)

	count := 250
	claims := make([]model.CleanedClaim, count)
	for i := range claims {
		claims[i] = model.CleanedClaim{ID: fmt.Sprintf("C%03d", i), Phenomenon: model.UnclassifiedLabel}
	}

	done := make(chan Stats, 1)
	go func() {
		_, stats := enricher.Enrich(context.Background(), claims)
		done <- stats
	}()

	select {
	case stats := <-done:
		if stats.Candidates != count {
			t.Errorf("candidates: got %d, want %d", stats.Candidates, count)
		}
		if len(provider.batches) != count {
			t.Errorf("batches: got %d, want %d", len(provider.batches), count)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("enrichment stalled on a large candidate set")
	}
}

func TestEnrichCacheHit(t *testing.T) {
	provider := &stubProvider{results: map[string]Result{
		"A": {Phenomenon: "Seat Heater / Thermal"},
	}}
	memCache := cache.NewMemoryCache(0, 0)
	enricher := NewEnricher(provider, memCache, enrichConfig(), nil)

	claims := []model.CleanedClaim{
		{ID: "A", Description: "heating element smell", Phenomenon: model.UnclassifiedLabel},
	}

	enricher.Enrich(context.Background(), claims)
	if len(provider.batches) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(provider.batches))
	}

	// Same text again: served from cache, no second provider call.
	out, stats := enricher.Enrich(context.Background(), claims)
	if len(provider.batches) != 1 {
		t.Errorf("expected cached result, got %d provider calls", len(provider.batches))
	}
	if stats.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", stats.CacheHits)
	}
	if out[0].Phenomenon != "Seat Heater / Thermal" {
		t.Errorf("cached result not applied: %+v", out[0])
	}
}
