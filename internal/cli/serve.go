package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autoseat/claimlens/internal/enrich"
	"github.com/autoseat/claimlens/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference claims server",
	Long: `Run the SQLite-backed claims server the sync commands talk to. It
serves the claims API, pushes update notifications over SSE, and exposes
the AI classification proxy when an enrichment provider is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)
		defer func() { _ = logger.Sync() }()

		store, err := server.NewStore(cfg.Server.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		// The server-side classifier must be a real provider, not the
		// proxy pointing back at this server.
		var classifier enrich.Provider
		if cfg.Enrich.Provider == "openai" {
			classifier, err = enrich.NewOpenAIProvider(cfg.Enrich)
			if err != nil {
				return fmt.Errorf("configure classifier: %w", err)
			}
		}

		srv := server.New(store, cfg.Server, classifier, logger)
		fmt.Printf("Serving claims on %s (db %s)\n", cfg.Server.Addr, cfg.Server.DBPath)
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
