package enrich

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/autoseat/claimlens/internal/cache"
	"github.com/autoseat/claimlens/internal/model"
	"github.com/autoseat/claimlens/internal/worker"
)

// Stats summarizes one enrichment run
type Stats struct {
	Candidates int `json:"candidates"`
	CacheHits  int `json:"cacheHits"`
	Enriched   int `json:"enriched"`
	Failed     int `json:"failed"`
}

// Enricher runs batched, rate-limited classification over a claim set
type Enricher struct {
	provider  Provider
	cache     cache.Cache
	limiter   *worker.Limiter
	batchSize int
	workers   int
	log       *zap.Logger
}

// NewEnricher wires an enricher. A nil cache disables caching; provider
// must be non-nil.
func NewEnricher(provider Provider, resultCache cache.Cache, cfg model.EnrichConfig, log *zap.Logger) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Enricher{
		provider:  provider,
		cache:     resultCache,
		limiter:   worker.NewLimiter(cfg.RatePerSec, workers),
		batchSize: batchSize,
		workers:   workers,
		log:       log,
	}
}

// Enrich classifies every candidate claim and returns a new slice with the
// refinements applied. Claims the provider has no answer for pass through
// untouched, and a failed batch degrades to the rule-based classification
// rather than failing the run.
func (e *Enricher) Enrich(ctx context.Context, claims []model.CleanedClaim) ([]model.CleanedClaim, Stats) {
	out := make([]model.CleanedClaim, len(claims))
	copy(out, claims)

	var stats Stats
	results := make(map[string]Result)
	var pending []Request

	for _, claim := range out {
		if !NeedsEnrichment(claim) {
			continue
		}
		stats.Candidates++

		if cached, ok := e.cachedResult(claim); ok {
			results[claim.ID] = cached
			stats.CacheHits++
			continue
		}
		pending = append(pending, BuildRequest(claim))
	}

	if len(pending) > 0 {
		fetched, failed := e.classifyAll(ctx, pending)
		stats.Failed = failed
		for id, result := range fetched {
			results[id] = result
		}
		e.storeResults(out, fetched)
	}

	for i, claim := range out {
		result, ok := results[claim.ID]
		if !ok {
			continue
		}
		out[i] = ApplyResult(claim, result)
		stats.Enriched++
	}

	e.log.Info("enrichment complete",
		zap.Int("candidates", stats.Candidates),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("enriched", stats.Enriched),
		zap.Int("failed", stats.Failed))
	return out, stats
}

type classifyJob struct {
	requests []Request
	provider Provider
	limiter  *worker.Limiter
}

type classifyResult struct {
	results map[string]Result
	err     error
}

func (r *classifyResult) GetError() error {
	return r.err
}

func (j *classifyJob) Execute(ctx context.Context) worker.Result {
	if err := j.limiter.Wait(ctx); err != nil {
		return &classifyResult{err: err}
	}
	results, err := j.provider.ClassifyBatch(ctx, j.requests)
	return &classifyResult{results: results, err: err}
}

// classifyAll fans batches out over the worker pool and merges the results.
// Returns the merged map and the number of failed batches.
func (e *Enricher) classifyAll(ctx context.Context, requests []Request) (map[string]Result, int) {
	batches := worker.Chunk(requests, e.batchSize)

	pool := worker.NewPool(e.workers)
	pool.Start()
	for _, batch := range batches {
		pool.Submit(&classifyJob{requests: batch, provider: e.provider, limiter: e.limiter})
	}

	merged := make(map[string]Result)
	failed := 0
	for _, res := range pool.Wait() {
		cr := res.(*classifyResult)
		if cr.err != nil {
			e.log.Warn("classification batch failed", zap.Error(cr.err))
			failed++
			continue
		}
		for id, result := range cr.results {
			merged[id] = result
		}
	}

	if ctx.Err() != nil {
		pool.Shutdown()
	}
	return merged, failed
}

func (e *Enricher) cachedResult(claim model.CleanedClaim) (Result, bool) {
	if e.cache == nil {
		return Result{}, false
	}
	data, found := e.cache.Get(cache.Key(claimText(claim)))
	if !found {
		return Result{}, false
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, false
	}
	return result, true
}

func (e *Enricher) storeResults(claims []model.CleanedClaim, results map[string]Result) {
	if e.cache == nil || len(results) == 0 {
		return
	}
	for _, claim := range claims {
		result, ok := results[claim.ID]
		if !ok {
			continue
		}
		data, err := json.Marshal(result)
		if err != nil {
			continue
		}
		_ = e.cache.Set(cache.Key(claimText(claim)), data, 0)
	}
}

// claimText is the cache identity of a claim: identical text means an
// identical classification regardless of id
func claimText(claim model.CleanedClaim) string {
	return strings.Join([]string{claim.Description, claim.PartName, claim.Model}, "\x1f")
}
