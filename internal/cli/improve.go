package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autoseat/claimlens/internal/improve"
	"github.com/autoseat/claimlens/internal/ingest"
	"github.com/autoseat/claimlens/internal/model"
)

// improveCmd represents the improve command
var improveCmd = &cobra.Command{
	Use:   "improve <claims.csv> <actions.json>",
	Short: "Evaluate improvement actions against the claim history",
	Long: `Evaluate remediation actions by comparing claim volume and cost in
equal windows before and after each action's start date. Actions are a
JSON array of objects with id, name, phenomenon and startDate.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		store := openRuleStore(cfg)

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open claims file: %w", err)
		}
		defer func() { _ = file.Close() }()

		table, err := ingest.ParseCSV(file)
		if err != nil {
			return fmt.Errorf("parse csv: %w", err)
		}
		claims, _ := ingest.NewCleaner(store.Active()).Clean(table)

		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read actions file: %w", err)
		}
		var actions []model.ImprovementAction
		if err := json.Unmarshal(data, &actions); err != nil {
			return fmt.Errorf("decode actions file: %w", err)
		}

		metrics := improve.CalculateMetrics(claims, actions)
		if len(metrics) == 0 {
			fmt.Println("No evaluable actions (all missing start dates).")
			return nil
		}

		for _, action := range actions {
			m, ok := metrics[action.ID]
			if !ok {
				continue
			}
			window := action.EvaluationWindowDays
			if window <= 0 {
				window = improve.DefaultWindowDays
			}
			fmt.Printf("%s (%s, from %s, %dd window)\n", action.Name, action.Phenomenon, action.StartDate, window)
			fmt.Printf("  claims: %d -> %d (%+d)\n", m.BeforeCount, m.AfterCount, m.DeltaCount)
			fmt.Printf("  cost:   %.2f -> %.2f (%+.2f)\n", m.BeforeCost, m.AfterCost, m.DeltaCost)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(improveCmd)
}
