// Package pipeline orchestrates the complete analysis: parse, clean,
// enrich, filter, aggregate.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/autoseat/claimlens/internal/aggregate"
	"github.com/autoseat/claimlens/internal/cache"
	"github.com/autoseat/claimlens/internal/enrich"
	"github.com/autoseat/claimlens/internal/ingest"
	"github.com/autoseat/claimlens/internal/model"
)

// Pipeline runs CSV input through cleaning, optional enrichment and
// aggregation
type Pipeline struct {
	cleaner  *ingest.Cleaner
	enricher *enrich.Enricher // nil when enrichment is disabled
	config   *model.Config
	log      *zap.Logger
}

// NewPipeline creates a pipeline classifying with the given rule set.
// Enrichment is wired up only when a provider is configured.
func NewPipeline(cfg *model.Config, ruleSet *model.ClassificationRuleSet, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var enricher *enrich.Enricher
	provider, err := enrich.NewProvider(cfg.Enrich, cfg.Remote)
	if err != nil {
		return nil, fmt.Errorf("configure enrichment: %w", err)
	}
	if provider != nil {
		var resultCache cache.Cache
		if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
			resultCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else if cfg.Cache.Enabled {
			resultCache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
		enricher = enrich.NewEnricher(provider, resultCache, cfg.Enrich, log)
		log.Info("enrichment enabled", zap.String("provider", provider.Name()))
	}

	return &Pipeline{
		cleaner:  ingest.NewCleaner(ruleSet),
		enricher: enricher,
		config:   cfg,
		log:      log,
	}, nil
}

// Report bundles everything one analysis run produces
type Report struct {
	GeneratedAt string               `json:"generatedAt"`
	SourceFile  string               `json:"sourceFile,omitempty"`
	CleanStats  model.CleanStats     `json:"cleanStats"`
	EnrichStats *enrich.Stats        `json:"enrichStats,omitempty"`
	KPIs        model.KPI            `json:"kpis"`
	Aggregates  model.AggregatedData `json:"aggregates"`
	Claims      []model.CleanedClaim `json:"claims"`
}

// AnalyzeFile runs the pipeline over a CSV file
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string, filters model.FilterState) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = file.Close() }()

	report, err := p.Analyze(ctx, file, filters)
	if err != nil {
		return nil, err
	}
	report.SourceFile = path
	return report, nil
}

// Analyze runs the pipeline over raw CSV input
func (p *Pipeline) Analyze(ctx context.Context, input io.Reader, filters model.FilterState) (*Report, error) {
	table, err := ingest.ParseCSV(input)
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	claims, stats := p.cleaner.Clean(table)
	p.log.Info("cleaned claims",
		zap.Int("kept", stats.ParsedRows),
		zap.Int("dropped", stats.DroppedRows))

	report := &Report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		CleanStats:  stats,
	}

	if p.enricher != nil {
		enriched, enrichStats := p.enricher.Enrich(ctx, claims)
		claims = enriched
		report.EnrichStats = &enrichStats
	}

	filtered := aggregate.ApplyFilters(claims, filters)
	report.KPIs = aggregate.CalculateKPIs(filtered)
	report.Aggregates = aggregate.Aggregate(filtered)
	report.Claims = filtered

	return report, nil
}
