package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autoseat/claimlens/internal/ingest"
	"github.com/autoseat/claimlens/internal/model"
	"github.com/autoseat/claimlens/internal/rules"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the classification rule set",
	Long: `Manage the versioned keyword taxonomy claims are classified with.

The active rule set persists at ~/.claimlens/rules.json (configurable via
rules.path). Imports are validated and diffed before they replace the
active set; preview shows the effect of a candidate rule set on an
existing claims file without activating it.`,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active rule set",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openRuleStore(loadConfig())
		text, err := rules.SerializeRuleSet(store.Active())
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Write the active rule set to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openRuleStore(loadConfig())
		text, err := rules.SerializeRuleSet(store.Active())
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("write rules file: %w", err)
		}
		fmt.Printf("Exported rule set to %s\n", args[0])
		return nil
	},
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Validate and activate a rule set from a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openRuleStore(loadConfig())

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read rules file: %w", err)
		}
		candidate, err := rules.ParseRuleSetFromJSON(string(data))
		if err != nil {
			return err
		}

		diff := rules.DiffRuleSets(store.Active(), candidate)
		if err := store.SetActive(candidate, true); err != nil {
			return err
		}

		fmt.Printf("Activated rule set version %s (was %s)\n", diff.NewVersion, diff.OldVersion)
		if diff.Empty() {
			fmt.Println("No rule changes.")
			return nil
		}
		for _, cat := range diff.Categories {
			if len(cat.Added)+len(cat.Removed)+len(cat.Changed) == 0 {
				continue
			}
			fmt.Printf("  %s: %d added, %d removed, %d changed\n",
				cat.Category, len(cat.Added), len(cat.Removed), len(cat.Changed))
		}
		return nil
	},
	Args: cobra.ExactArgs(1),
}

var rulesPreviewCmd = &cobra.Command{
	Use:   "preview <claims.csv> <rules.json>",
	Short: "Show the effect of a candidate rule set without activating it",
	Args:  cobra.ExactArgs(2),
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
			return fmt.Errorf("read rules file: %w", err)
		}
		candidate, err := rules.ParseRuleSetFromJSON(string(data))
		if err != nil {
			return err
		}

		preview := rules.PreviewRules(claims, candidate)
		fmt.Printf("Claims: %d, would change: %d\n", preview.TotalClaims, preview.ChangedClaims)
		if len(preview.Phenomena) > 0 {
			fmt.Println("\nPhenomenon counts (before -> after):")
			for _, shift := range preview.Phenomena {
				marker := " "
				if shift.Before != shift.After {
					marker = "*"
				}
				fmt.Printf("  %s %-30s %4d -> %4d\n", marker, shift.Label, shift.Before, shift.After)
			}
		}
		return nil
	},
}

var rulesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the built-in default rule set",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openRuleStore(loadConfig())
		if err := store.Reset(); err != nil {
			return err
		}
		fmt.Printf("Restored default rule set version %s\n", store.Active().Version)
		return nil
	},
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete <category> <code>",
	Short: "Delete one rule from the active set",
	Long: `Delete a single rule by category (phenomena, causes, contaminations)
and code. The fallback rule and the last remaining rule of a category
cannot be deleted.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openRuleStore(loadConfig())
		if err := store.DeleteRule(model.RuleCategory(args[0]), args[1]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s rule %q\n", args[0], args[1])
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesExportCmd)
	rulesCmd.AddCommand(rulesImportCmd)
	rulesCmd.AddCommand(rulesPreviewCmd)
	rulesCmd.AddCommand(rulesResetCmd)
	rulesCmd.AddCommand(rulesDeleteCmd)
	rootCmd.AddCommand(rulesCmd)
}
