package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/autoseat/claimlens/internal/export"
)

// RenderJSON writes the full report to path as indented JSON
func RenderJSON(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderClaimsCSV writes the cleaned claims to path as CSV
func RenderClaimsCSV(report *Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create claims csv: %w", err)
	}
	defer func() { _ = file.Close() }()
	return export.WriteClaims(file, report.Claims)
}

// RenderSummaryCSV writes the KPI and breakdown summary to path as CSV
func RenderSummaryCSV(report *Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary csv: %w", err)
	}
	defer func() { _ = file.Close() }()
	return export.WriteSummary(file, report.KPIs, report.Aggregates)
}

// RenderSummary prints a human-readable digest of the report
func RenderSummary(w io.Writer, report *Report) {
	fmt.Fprintf(w, "Claims analyzed:  %d (dropped %d)\n", report.CleanStats.ParsedRows, report.CleanStats.DroppedRows)
	fmt.Fprintf(w, "Total cost:       %.2f\n", report.KPIs.TotalCost)
	fmt.Fprintf(w, "Avg cost/claim:   %.2f\n", report.KPIs.AvgCostPerClaim)
	fmt.Fprintf(w, "High severity:    %d (%.1f%%)\n", report.KPIs.HighSeverityCount, report.KPIs.HighSeverityRatio)
	fmt.Fprintf(w, "Top defect:       %s\n", report.KPIs.TopDefect)
	fmt.Fprintf(w, "MoM growth:       %.1f%%\n", report.KPIs.MoMGrowth)

	if report.EnrichStats != nil {
		fmt.Fprintf(w, "Enrichment:       %d/%d refined (%d cache hits)\n",
			report.EnrichStats.Enriched, report.EnrichStats.Candidates, report.EnrichStats.CacheHits)
	}

	if len(report.Aggregates.PhenomenonSummary) > 0 {
		fmt.Fprintln(w, "\nTop phenomena by cost:")
		for i, row := range report.Aggregates.PhenomenonSummary {
			if i >= 5 {
				break
			}
			fmt.Fprintf(w, "  %-30s %5d claims  %10.2f\n", row.Label, row.Count, row.Cost)
		}
	}

	if spike := report.Aggregates.CostSpike; spike != nil {
		fmt.Fprintf(w, "\nCost spike: %s up %.2f (%.2f -> %.2f)\n",
			spike.Phenomenon, spike.DeltaCost, spike.PreviousCost, spike.CurrentCost)
	}

	if insight := report.Aggregates.TrendInsight; insight != nil {
		fmt.Fprintf(w, "Trend: %s %d claims vs %s %d (%.1f%%)\n",
			insight.RecentLabel, insight.RecentCount,
			insight.CompareLabel, insight.PreviousCount, insight.GrowthPercent)
	}

	if len(report.Aggregates.ImportantClaims) > 0 {
		fmt.Fprintln(w, "\nClaims needing attention:")
		for _, claim := range report.Aggregates.ImportantClaims {
			fmt.Fprintf(w, "  %-12s %s  %-10s %-25s %.2f\n",
				claim.ID, claim.Date, claim.Severity, claim.Phenomenon, claim.Cost)
		}
	}
}
