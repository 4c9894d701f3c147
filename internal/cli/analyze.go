package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autoseat/claimlens/internal/model"
	"github.com/autoseat/claimlens/internal/pipeline"
	"github.com/autoseat/claimlens/internal/rules"
)

var analyzeFlags struct {
	jsonOut    string
	claimsOut  string
	summaryOut string
	rulesFile  string
	enrich     string

	filterModel         string
	filterPhenomenon    string
	filterCause         string
	filterContamination string
	filterSeverity      string
	filterFlag          string
	dateFrom            string
	dateTo              string
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <claims.csv>",
	Short: "Clean, classify and aggregate a claims CSV",
	Long: `Analyze parses a warranty claims CSV export, cleans and classifies
every row against the active rule set, and prints the derived analytics.

Filters narrow the analyzed slice; the ALL wildcard (the default) passes
everything. Reports can additionally be written as JSON or CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if analyzeFlags.enrich != "" {
			cfg.Enrich.Provider = analyzeFlags.enrich
		}

		logger := newLogger(cfg)
		defer func() { _ = logger.Sync() }()

		ruleSet, err := resolveRuleSet(cfg, analyzeFlags.rulesFile)
		if err != nil {
			return err
		}

		p, err := pipeline.NewPipeline(cfg, ruleSet, logger)
		if err != nil {
			return err
		}

		report, err := p.AnalyzeFile(cmd.Context(), args[0], analyzeFilters())
		if err != nil {
			return err
		}

		if analyzeFlags.jsonOut != "" {
			if err := pipeline.RenderJSON(report, analyzeFlags.jsonOut); err != nil {
				return err
			}
			fmt.Printf("Wrote JSON report: %s\n", analyzeFlags.jsonOut)
		}
		if analyzeFlags.claimsOut != "" {
			if err := pipeline.RenderClaimsCSV(report, analyzeFlags.claimsOut); err != nil {
				return err
			}
			fmt.Printf("Wrote claims CSV: %s\n", analyzeFlags.claimsOut)
		}
		if analyzeFlags.summaryOut != "" {
			if err := pipeline.RenderSummaryCSV(report, analyzeFlags.summaryOut); err != nil {
				return err
			}
			fmt.Printf("Wrote summary CSV: %s\n", analyzeFlags.summaryOut)
		}

		pipeline.RenderSummary(os.Stdout, report)
		return nil
	},
}

// resolveRuleSet returns the rule set for this run: an explicit file when
// given, otherwise the persisted active set
func resolveRuleSet(cfg *model.Config, rulesFile string) (*model.ClassificationRuleSet, error) {
	if rulesFile == "" {
		return openRuleStore(cfg).Active(), nil
	}
	data, err := os.ReadFile(rulesFile)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return rules.ParseRuleSetFromJSON(string(data))
}

func analyzeFilters() model.FilterState {
	filters := model.DefaultFilters()
	if analyzeFlags.filterModel != "" {
		filters.Model = analyzeFlags.filterModel
	}
	if analyzeFlags.filterPhenomenon != "" {
		filters.Phenomenon = analyzeFlags.filterPhenomenon
	}
	if analyzeFlags.filterCause != "" {
		filters.Cause = analyzeFlags.filterCause
	}
	if analyzeFlags.filterContamination != "" {
		filters.Contamination = analyzeFlags.filterContamination
	}
	if analyzeFlags.filterSeverity != "" {
		filters.Severity = analyzeFlags.filterSeverity
	}
	if analyzeFlags.filterFlag != "" {
		filters.Flag = analyzeFlags.filterFlag
	}
	filters.DateRange.Start = analyzeFlags.dateFrom
	filters.DateRange.End = analyzeFlags.dateTo
	return filters
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.jsonOut, "json", "", "write the full report as JSON to this path")
	f.StringVar(&analyzeFlags.claimsOut, "claims-csv", "", "write the cleaned claims as CSV to this path")
	f.StringVar(&analyzeFlags.summaryOut, "summary-csv", "", "write the aggregate summary as CSV to this path")
	f.StringVar(&analyzeFlags.rulesFile, "rules", "", "classify with this rule file instead of the active rule set")
	f.StringVar(&analyzeFlags.enrich, "enrich", "", "enrichment provider for this run (proxy, openai)")

	f.StringVar(&analyzeFlags.filterModel, "model", "", "filter by vehicle model")
	f.StringVar(&analyzeFlags.filterPhenomenon, "phenomenon", "", "filter by phenomenon label")
	f.StringVar(&analyzeFlags.filterCause, "cause", "", "filter by cause label")
	f.StringVar(&analyzeFlags.filterContamination, "contamination", "", "filter by contamination label")
	f.StringVar(&analyzeFlags.filterSeverity, "severity", "", "filter by severity (High, Medium, Low)")
	f.StringVar(&analyzeFlags.filterFlag, "flag", "", "filter by flag label")
	f.StringVar(&analyzeFlags.dateFrom, "from", "", "earliest claim date (YYYY-MM-DD)")
	f.StringVar(&analyzeFlags.dateTo, "to", "", "latest claim date (YYYY-MM-DD)")

	rootCmd.AddCommand(analyzeCmd)
}
